// Package web exposes the joint engine over HTTP and websocket for the
// browser viewer. The engine itself is single-threaded; the server owns
// the one mutex that serializes fiber handlers against the daemon's tick
// loop, so handlers never touch the engine directly.
package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/biomechlab/go-biomech/internal/log"
	"github.com/biomechlab/go-biomech/pkg/biomech"
	"github.com/biomechlab/go-biomech/pkg/hub"
	"github.com/biomechlab/go-biomech/pkg/session"
)

// Server is the viewer backend: REST for model/state/commands, websocket
// for the live state stream.
type Server struct {
	app  *fiber.App
	addr string

	// mu serializes all engine access: handlers, the tick loop (via Do),
	// and state publication.
	mu     sync.Mutex
	engine *biomech.Engine

	// store is optional; session routes 404 without it.
	store *session.Store

	stateHub *hub.Hub
}

// NewServer wires the fiber app around an engine. store may be nil.
func NewServer(addr string, engine *biomech.Engine, store *session.Store) *Server {
	s := &Server{
		addr:     addr,
		engine:   engine,
		store:    store,
		stateHub: hub.New("state"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Biomech Viewer",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/model", s.handleModel)
	api.Get("/state", s.handleState)
	api.Get("/joints/:joint", s.handleJoint)
	api.Post("/calibrate", s.handleCalibrate)
	api.Post("/joints/:joint/coordinates", s.handleApplyCoordinates)
	api.Get("/sessions", s.handleSessions)
	api.Get("/sessions/:id/summary", s.handleSessionSummary)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s
}

// Start starts the web server and the broadcast hub. Blocks.
func (s *Server) Start() error {
	log.Info("viewer listening", "addr", s.addr)
	go s.stateHub.Run()
	return s.app.Listen(s.addr)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server", "err", err)
		}
	}()
}

// Do runs fn with exclusive engine access. The daemon's tick loop drives
// Update through this.
func (s *Server) Do(fn func(e *biomech.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// PublishState broadcasts the current snapshot to websocket clients.
func (s *Server) PublishState() {
	s.mu.Lock()
	payload := s.statePayload()
	s.mu.Unlock()
	if err := s.stateHub.BroadcastJSON(payload); err != nil {
		log.Error("state broadcast", "err", err)
	}
}

// handleStateWS hands the connection to the hub's read/write pumps. The
// hub replays the latest snapshot on join.
func (s *Server) handleStateWS(c *websocket.Conn) {
	hub.NewClient(s.stateHub, c).Run()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/biomech"
)

// coordinateInfo describes one generalized coordinate to the viewer.
type coordinateInfo struct {
	Name    string  `json:"name"`
	Display string  `json:"display"`
	Axis    string  `json:"axis"`
	Index   int     `json:"index"`
	Neutral float64 `json:"neutral"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Clamped bool    `json:"clamped"`
	Locked  bool    `json:"locked"`
	Invert  bool    `json:"invert"`
}

// jointInfo describes one joint definition.
type jointInfo struct {
	Name        string           `json:"name"`
	Display     string           `json:"display"`
	Parent      string           `json:"parent"`
	Child       string           `json:"child"`
	Kind        string           `json:"kind"`
	Order       string           `json:"order"`
	Side        string           `json:"side"`
	Coordinates []coordinateInfo `json:"coordinates"`
}

// segmentInfo describes one segment definition.
type segmentInfo struct {
	Name          string `json:"name"`
	Display       string `json:"display"`
	Source        string `json:"source"`
	RigNode       string `json:"rig_node,omitempty"`
	VirtualParent string `json:"virtual_parent,omitempty"`
}

// statePayload is the REST and websocket state envelope.
type statePayload struct {
	Phase       string             `json:"phase"`
	Calibration string             `json:"calibration,omitempty"`
	State       biomech.ModelState `json:"state"`
}

// statePayload builds the envelope. Callers hold s.mu.
func (s *Server) statePayload() statePayload {
	return statePayload{
		Phase:       s.engine.Phase().String(),
		Calibration: s.engine.CalibrationLabel(),
		State:       s.engine.Snapshot(),
	}
}

// jointByName resolves a route parameter like "knee_l" to a definition.
func (s *Server) jointByName(name string) (*anatomy.Joint, bool) {
	for i := range s.engine.Model().Joints {
		j := &s.engine.Model().Joints[i]
		if j.ID.String() == name {
			return j, true
		}
	}
	return nil, false
}

// handleModel returns the static segment and joint tables.
func (s *Server) handleModel(c *fiber.Ctx) error {
	s.mu.Lock()
	m := s.engine.Model()
	s.mu.Unlock()

	segments := make([]segmentInfo, 0, len(m.Segments))
	for i := range m.Segments {
		seg := &m.Segments[i]
		info := segmentInfo{
			Name:    seg.ID.String(),
			Display: seg.Display,
		}
		if seg.Source == anatomy.SourceVirtual {
			info.Source = "virtual"
			info.VirtualParent = seg.VirtualParent.String()
		} else {
			info.Source = "rig_node"
			info.RigNode = seg.RigNode
		}
		segments = append(segments, info)
	}

	joints := make([]jointInfo, 0, len(m.Joints))
	for i := range m.Joints {
		j := &m.Joints[i]
		info := jointInfo{
			Name:        j.ID.String(),
			Display:     j.Display,
			Parent:      j.Parent.String(),
			Child:       j.Child.String(),
			Kind:        j.Kind.String(),
			Order:       j.Order.String(),
			Side:        j.Side.String(),
			Coordinates: make([]coordinateInfo, 0, len(j.Coordinates)),
		}
		for _, co := range j.Coordinates {
			info.Coordinates = append(info.Coordinates, coordinateInfo{
				Name:    co.Name,
				Display: co.Display,
				Axis:    co.Axis.String(),
				Index:   co.Index,
				Neutral: co.Neutral,
				Min:     co.Min,
				Max:     co.Max,
				Clamped: co.Clamped,
				Locked:  co.Locked,
				Invert:  co.Invert,
			})
		}
		joints = append(joints, info)
	}

	return c.JSON(fiber.Map{"segments": segments, "joints": joints})
}

// handleState returns the latest whole-model snapshot.
func (s *Server) handleState(c *fiber.Ctx) error {
	s.mu.Lock()
	payload := s.statePayload()
	s.mu.Unlock()
	return c.JSON(payload)
}

// handleJoint returns one joint's latest state.
func (s *Server) handleJoint(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jointByName(c.Params("joint"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown joint " + c.Params("joint"),
		})
	}
	state, ok := s.engine.JointState(j.ID)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "joint has no state yet",
		})
	}
	return c.JSON(state)
}

// CalibrateRequest is the body of POST /api/calibrate.
type CalibrateRequest struct {
	Label string `json:"label"`
}

// handleCalibrate captures the current pose as the neutral reference.
func (s *Server) handleCalibrate(c *fiber.Ctx) error {
	var req CalibrateRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Label == "" {
		req.Label = "neutral"
	}

	s.mu.Lock()
	res, err := s.engine.CalibrateNeutral(req.Label)
	s.mu.Unlock()
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(fiber.Map{
		"label":      res.Label,
		"calibrated": res.Calibrated,
		"skipped":    res.Skipped,
		"at":         res.At,
	})
}

// ApplyRequest is the body of POST /api/joints/:joint/coordinates.
// Values are radians in coordinate slot order; omitted slots hold their
// current value.
type ApplyRequest struct {
	Values []float64 `json:"values"`
}

// handleApplyCoordinates poses one joint from coordinate values.
func (s *Server) handleApplyCoordinates(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Values) > 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at most three coordinate values",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jointByName(c.Params("joint"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown joint " + c.Params("joint"),
		})
	}

	// Values are in declaration order; omitted trailing slots keep their
	// current value so a one-coordinate edit does not zero the rest.
	var values [3]float64
	st, hasState := s.engine.JointState(j.ID)
	for i := range j.Coordinates {
		if i < len(req.Values) {
			values[i] = req.Values[i]
		} else if hasState {
			if cs, ok := st.Coordinates[j.CoordinateID(i)]; ok {
				values[i] = cs.Value
			}
		}
	}

	if err := s.engine.ApplyCoordinates(j.ID, values); err != nil {
		return engineError(c, err)
	}
	state, _ := s.engine.JointState(j.ID)
	return c.JSON(state)
}

// handleSessions lists recorded sessions.
func (s *Server) handleSessions(c *fiber.Ctx) error {
	if s.store == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session recording disabled",
		})
	}
	sessions, err := s.store.Sessions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sessions)
}

// handleSessionSummary returns per-coordinate statistics for one session.
func (s *Server) handleSessionSummary(c *fiber.Ctx) error {
	if s.store == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session recording disabled",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad session id"})
	}
	summary, err := s.store.Summary(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// engineError maps engine sentinels onto HTTP statuses.
func engineError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, biomech.ErrUnknownJoint):
		status = fiber.StatusNotFound
	case errors.Is(err, biomech.ErrUninitialized),
		errors.Is(err, biomech.ErrNotCalibrated),
		errors.Is(err, biomech.ErrJointUnavailable):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

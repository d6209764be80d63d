// Package session records per-tick coordinate samples into sqlite and
// summarizes observed range of motion per coordinate. Sessions are an
// analysis convenience, not durable engine state: the engine itself keeps
// calibration in memory only, and recalibrating after a reload is expected.
package session

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	_ "modernc.org/sqlite"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/biomech"
)

// Store is a thin wrapper over the sqlite session database. Use ":memory:"
// for throwaway stores.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a session database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			label      TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			at         TIMESTAMP NOT NULL,
			coordinate TEXT NOT NULL,
			value      REAL NOT NULL,
			clamped    INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS samples_by_coordinate
			ON samples(session_id, coordinate);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Session identifies one recording.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	StartedAt time.Time `json:"started_at"`
}

// Begin starts a new recording session.
func (s *Store) Begin(label string) (*Recorder, error) {
	sess := Session{ID: uuid.New(), Label: label, StartedAt: time.Now()}
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, label, started_at) VALUES (?, ?, ?)",
		sess.ID.String(), sess.Label, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: s, session: sess}, nil
}

// Sessions lists recorded sessions, oldest first.
func (s *Store) Sessions() ([]Session, error) {
	rows, err := s.db.Query("SELECT id, label, started_at FROM sessions ORDER BY started_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			id   string
			sess Session
		)
		if err := rows.Scan(&id, &sess.Label, &sess.StartedAt); err != nil {
			return nil, err
		}
		sess.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("session: bad id %q: %w", id, err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Recorder appends snapshots to one session.
type Recorder struct {
	store   *Store
	session Session
	samples int
}

// Session returns the recording's identity.
func (r *Recorder) Session() Session { return r.session }

// Samples returns how many coordinate samples were written so far.
func (r *Recorder) Samples() int { return r.samples }

// Record writes every coordinate of a ModelState snapshot as one row per
// coordinate, in a single transaction.
func (r *Recorder) Record(state biomech.ModelState) error {
	tx, err := r.store.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO samples (session_id, at, coordinate, value, clamped) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, js := range state.Joints {
		for cid, cs := range js.Coordinates {
			if _, err := stmt.Exec(r.session.ID.String(), cs.Timestamp, string(cid), cs.Value, cs.Clamped); err != nil {
				tx.Rollback()
				return err
			}
			r.samples++
		}
	}
	return tx.Commit()
}

// CoordinateSummary aggregates one coordinate over a session.
type CoordinateSummary struct {
	Coordinate anatomy.CoordinateID `json:"coordinate"`
	Count      int                  `json:"count"`
	Min        float64              `json:"min"`
	Max        float64              `json:"max"`
	Mean       float64              `json:"mean"`
	StdDev     float64              `json:"stddev"`
	Span       float64              `json:"span"` // observed range of motion
	Clamped    int                  `json:"clamped"`
}

// Summary computes per-coordinate statistics for a session, sorted by
// coordinate id.
func (s *Store) Summary(id uuid.UUID) ([]CoordinateSummary, error) {
	rows, err := s.db.Query(
		"SELECT coordinate, value, clamped FROM samples WHERE session_id = ?", id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string][]float64)
	clamped := make(map[string]int)
	for rows.Next() {
		var (
			coord string
			v     float64
			cl    bool
		)
		if err := rows.Scan(&coord, &v, &cl); err != nil {
			return nil, err
		}
		values[coord] = append(values[coord], v)
		if cl {
			clamped[coord]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	coords := make([]string, 0, len(values))
	for c := range values {
		coords = append(coords, c)
	}
	sort.Strings(coords)

	out := make([]CoordinateSummary, 0, len(coords))
	for _, c := range coords {
		vs := values[c]
		cs := CoordinateSummary{
			Coordinate: anatomy.CoordinateID(c),
			Count:      len(vs),
			Min:        math.Inf(1),
			Max:        math.Inf(-1),
			Mean:       stat.Mean(vs, nil),
			Clamped:    clamped[c],
		}
		for _, v := range vs {
			cs.Min = math.Min(cs.Min, v)
			cs.Max = math.Max(cs.Max, v)
		}
		if len(vs) > 1 {
			cs.StdDev = stat.StdDev(vs, nil)
		}
		cs.Span = cs.Max - cs.Min
		out = append(out, cs)
	}
	return out, nil
}

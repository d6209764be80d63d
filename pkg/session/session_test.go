package session

import (
	"math"
	"testing"
	"time"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/biomech"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stateWith builds a single-joint snapshot with the given flexion values,
// one CoordinateState per call site.
func stateWith(at time.Time, value float64, clamped bool) biomech.ModelState {
	cid := anatomy.CoordinateID("knee_l/flexion")
	return biomech.ModelState{
		Timestamp: at,
		Values:    map[anatomy.CoordinateID]float64{cid: value},
		Joints: map[anatomy.JointID]biomech.JointState{
			anatomy.JointKneeL: {
				JointName: "knee_l",
				Coordinates: map[anatomy.CoordinateID]biomech.CoordinateState{
					cid: {Value: value, Clamped: clamped, Timestamp: at},
				},
			},
		},
	}
}

func TestStore_BeginAndList(t *testing.T) {
	s := openTestStore(t)

	r1, err := s.Begin("warmup")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	r2, err := s.Begin("squat set")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if r1.Session().ID == r2.Session().ID {
		t.Error("two sessions share an id")
	}

	sessions, err := s.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Label != "warmup" || sessions[1].Label != "squat set" {
		t.Errorf("session order: %q, %q", sessions[0].Label, sessions[1].Label)
	}
}

func TestRecorder_RecordAndSummarize(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Begin("rom sweep")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	now := time.Now()
	for i, v := range []float64{0, 0.5, 1.0, 1.5, 2.0} {
		if err := rec.Record(stateWith(now.Add(time.Duration(i)*time.Second), v, false)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}
	if rec.Samples() != 5 {
		t.Errorf("samples: got %d, want 5", rec.Samples())
	}

	sums, err := s.Summary(rec.Session().ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(sums) != 1 {
		t.Fatalf("got %d coordinates, want 1", len(sums))
	}
	cs := sums[0]
	if cs.Coordinate != anatomy.CoordinateID("knee_l/flexion") {
		t.Errorf("coordinate: %v", cs.Coordinate)
	}
	if cs.Count != 5 {
		t.Errorf("count: %d", cs.Count)
	}
	if cs.Min != 0 || cs.Max != 2.0 || math.Abs(cs.Span-2.0) > 1e-12 {
		t.Errorf("range: min %v max %v span %v", cs.Min, cs.Max, cs.Span)
	}
	if math.Abs(cs.Mean-1.0) > 1e-12 {
		t.Errorf("mean: %v", cs.Mean)
	}
	if cs.StdDev <= 0 {
		t.Errorf("stddev: %v", cs.StdDev)
	}
}

func TestSummary_CountsClampedSamples(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Begin("overreach")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	now := time.Now()
	rec.Record(stateWith(now, 1.0, false))
	rec.Record(stateWith(now.Add(time.Second), 2.6, true))
	rec.Record(stateWith(now.Add(2*time.Second), 2.6, true))

	sums, err := s.Summary(rec.Session().ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sums[0].Clamped != 2 {
		t.Errorf("clamped count: %d, want 2", sums[0].Clamped)
	}
}

func TestSummary_SingleSampleHasZeroStdDev(t *testing.T) {
	s := openTestStore(t)
	rec, _ := s.Begin("still")
	rec.Record(stateWith(time.Now(), 0.7, false))

	sums, err := s.Summary(rec.Session().ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sums[0].StdDev != 0 {
		t.Errorf("single-sample stddev: %v", sums[0].StdDev)
	}
	if sums[0].Span != 0 {
		t.Errorf("single-sample span: %v", sums[0].Span)
	}
}

func TestSummary_EmptySession(t *testing.T) {
	s := openTestStore(t)
	rec, _ := s.Begin("empty")

	sums, err := s.Summary(rec.Session().ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(sums) != 0 {
		t.Errorf("empty session summarized %d coordinates", len(sums))
	}
}

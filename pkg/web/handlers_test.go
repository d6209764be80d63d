package web

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/biomech"
	"github.com/biomechlab/go-biomech/pkg/rig"
	"github.com/biomechlab/go-biomech/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	e := biomech.New(anatomy.Humanoid(), biomech.DefaultCouplings()...)
	res := e.Initialize(rig.DemoHumanoid())
	if len(res.Skipped) != 0 {
		t.Fatalf("Initialize skipped %d joints", len(res.Skipped))
	}
	if _, err := e.CalibrateNeutral("neutral"); err != nil {
		t.Fatalf("CalibrateNeutral: %v", err)
	}
	if _, err := e.Update(16 * time.Millisecond); err != nil {
		t.Fatalf("Update: %v", err)
	}

	store, err := session.Open(":memory:")
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewServer(":0", e, store)
}

func getJSON(t *testing.T, s *Server, path string, wantStatus int, out any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: status %d, want %d (%s)", path, resp.StatusCode, wantStatus, body)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
}

func postJSON(t *testing.T, s *Server, path string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func TestHandleModel(t *testing.T) {
	s := newTestServer(t)

	var model struct {
		Segments []segmentInfo `json:"segments"`
		Joints   []jointInfo   `json:"joints"`
	}
	getJSON(t, s, "/api/model", 200, &model)

	if len(model.Segments) != 17 || len(model.Joints) != 16 {
		t.Fatalf("model: %d segments, %d joints", len(model.Segments), len(model.Joints))
	}

	var knee *jointInfo
	for i := range model.Joints {
		if model.Joints[i].Name == "knee_l" {
			knee = &model.Joints[i]
		}
	}
	if knee == nil {
		t.Fatal("knee_l missing from model")
	}
	if knee.Kind != "hinge" || len(knee.Coordinates) != 1 {
		t.Errorf("knee_l: kind %q, %d coordinates", knee.Kind, len(knee.Coordinates))
	}
	if knee.Coordinates[0].Name != "flexion" || !knee.Coordinates[0].Clamped {
		t.Errorf("knee_l coordinate: %+v", knee.Coordinates[0])
	}
}

func TestHandleState(t *testing.T) {
	s := newTestServer(t)

	var payload statePayload
	getJSON(t, s, "/api/state", 200, &payload)
	if payload.Phase != "running" {
		t.Errorf("phase: %q", payload.Phase)
	}
	if payload.Calibration != "neutral" {
		t.Errorf("calibration label: %q", payload.Calibration)
	}
	if len(payload.State.Values) == 0 {
		t.Error("snapshot has no coordinate values")
	}
}

func TestHandleJoint(t *testing.T) {
	s := newTestServer(t)

	var js biomech.JointState
	getJSON(t, s, "/api/joints/knee_l", 200, &js)
	if js.JointName != "knee_l" {
		t.Errorf("joint name: %q", js.JointName)
	}

	getJSON(t, s, "/api/joints/no_such_joint", 404, nil)
}

func TestHandleApplyCoordinates(t *testing.T) {
	s := newTestServer(t)

	flex := 40 * math.Pi / 180
	status, body := postJSON(t, s, "/api/joints/knee_l/coordinates", ApplyRequest{
		Values: []float64{flex},
	})
	if status != 200 {
		t.Fatalf("apply: status %d (%s)", status, body)
	}

	var js biomech.JointState
	if err := json.Unmarshal(body, &js); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := js.Coordinates[anatomy.CoordinateID("knee_l/flexion")].Value
	if math.Abs(got-flex) > 1e-6 {
		t.Errorf("flexion after apply: %v, want %v", got, flex)
	}

	if status, _ := postJSON(t, s, "/api/joints/no_such_joint/coordinates", ApplyRequest{}); status != 404 {
		t.Errorf("unknown joint: status %d", status)
	}
}

func TestHandleCalibrate(t *testing.T) {
	s := newTestServer(t)

	status, body := postJSON(t, s, "/api/calibrate", CalibrateRequest{Label: "seated"})
	if status != 200 {
		t.Fatalf("calibrate: status %d (%s)", status, body)
	}
	var res struct {
		Label      string `json:"label"`
		Calibrated int    `json:"calibrated"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Label != "seated" || res.Calibrated != 16 {
		t.Errorf("calibration result: %+v", res)
	}
}

func TestCalibrateBeforeInitializeConflicts(t *testing.T) {
	e := biomech.New(anatomy.Humanoid())
	s := NewServer(":0", e, nil)

	status, _ := postJSON(t, s, "/api/calibrate", nil)
	if status != 409 {
		t.Errorf("calibrate uninitialized: status %d, want 409", status)
	}
}

func TestSessionRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, err := s.store.Begin("test run")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Do(func(e *biomech.Engine) {
		if err := rec.Record(e.Snapshot()); err != nil {
			t.Errorf("Record: %v", err)
		}
	})

	var sessions []session.Session
	getJSON(t, s, "/api/sessions", 200, &sessions)
	if len(sessions) != 1 || sessions[0].Label != "test run" {
		t.Fatalf("sessions: %+v", sessions)
	}

	var summary []session.CoordinateSummary
	getJSON(t, s, "/api/sessions/"+sessions[0].ID.String()+"/summary", 200, &summary)
	if len(summary) == 0 {
		t.Error("empty summary for recorded session")
	}

	getJSON(t, s, "/api/sessions/not-a-uuid/summary", 400, nil)
}

func TestSessionRoutesWithoutStore(t *testing.T) {
	e := biomech.New(anatomy.Humanoid())
	s := NewServer(":0", e, nil)
	getJSON(t, s, "/api/sessions", 404, nil)
}

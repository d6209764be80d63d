// Package biomech owns the stateful side of the joint kinematics engine:
// the segment registry, the calibration lifecycle, the per-tick coordinate
// snapshot, range-of-motion violation detection, the inverse write path
// back onto the rig, and rhythm coupling between linked joint pairs.
//
// The engine is single-threaded and synchronous by contract: it is driven
// once per frame by a host loop, and readers only run between ticks. It
// holds no locks; callers that fan reads out across goroutines serialize
// access themselves (pkg/web does).
package biomech

import (
	"fmt"
	"time"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/qspace"
	"github.com/biomechlab/go-biomech/pkg/rig"
)

// Phase is the engine lifecycle state.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseInitialized
	PhaseCalibrated
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitialized:
		return "initialized"
	case PhaseCalibrated:
		return "calibrated"
	case PhaseRunning:
		return "running"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// CoordinateState is one coordinate's sampled value for a tick.
type CoordinateState struct {
	Value     float64   `json:"value"`
	Locked    bool      `json:"locked"`
	Clamped   bool      `json:"clamped"` // sample was out of range before clamping
	Timestamp time.Time `json:"timestamp"`
}

// JointState is the per-joint snapshot produced each tick, together with
// the three orientations its coordinates were derived from. It is owned
// and overwritten by the engine; consumers must not mutate it.
type JointState struct {
	Joint       anatomy.JointID                              `json:"-"`
	JointName   string                                       `json:"joint"`
	Coordinates map[anatomy.CoordinateID]CoordinateState     `json:"coordinates"`
	Relative    qspace.Orientation                           `json:"relative"`
	Neutral     qspace.Orientation                           `json:"neutral"`
	Deviation   qspace.Orientation                           `json:"deviation"`
}

// ModelState is the whole-model snapshot. It is recomputed wholesale on
// each update, never patched incrementally, so cross-joint state can never
// go stale.
type ModelState struct {
	Timestamp time.Time                            `json:"timestamp"`
	Values    map[anatomy.CoordinateID]float64     `json:"values"`
	Joints    map[anatomy.JointID]JointState       `json:"joints"`
}

// Violation records a coordinate whose raw value fell outside its range
// before clamping.
type Violation struct {
	Joint      anatomy.JointID      `json:"-"`
	Coordinate anatomy.CoordinateID `json:"coordinate"`
	Value      float64              `json:"value"`
	Min        float64              `json:"min"`
	Max        float64              `json:"max"`
}

// SkippedJoint explains why a joint could not be constructed.
type SkippedJoint struct {
	Joint  anatomy.JointID
	Reason error
}

// InitResult is the partial-success outcome of Initialize.
type InitResult struct {
	Constructed []anatomy.JointID
	Skipped     []SkippedJoint
}

// CalibrationResult reports how calibration went.
type CalibrationResult struct {
	Label      string
	Calibrated int
	Skipped    int
	At         time.Time
}

// UpdateResult carries the ROM violations of one tick, in joint
// declaration order. Violations are informational; clamped coordinates
// were already restricted to their range in the snapshot.
type UpdateResult struct {
	Violations []Violation
}

type engineJoint struct {
	def        *anatomy.Joint
	neutral    qspace.Orientation
	calibrated bool
	hasState   bool
	state      JointState
}

// Engine is the biomech state machine: one instance per active rig, never
// a process-wide singleton. Lifecycle: Uninitialized → Initialize →
// Initialized → CalibrateNeutral → Calibrated → Update… → Running;
// Reset returns to Uninitialized and clears every cache.
type Engine struct {
	model     *anatomy.Model
	couplings []Coupling

	phase    Phase
	reg      *Registry
	joints   []*engineJoint
	byID     map[anatomy.JointID]*engineJoint
	snapshot ModelState
	calLabel string
	lastStep time.Duration

	// lastWorld is the per-segment fallback cache: the last successfully
	// resolved world orientation, used to ride out transient unresolved
	// nodes during rig reloads.
	lastWorld map[anatomy.SegmentID]qspace.Orientation
}

// New creates an engine over a static model. Couplings are applied after
// every primary update pass; pass DefaultCouplings() for the built-in
// scapulohumeral rhythm.
func New(model *anatomy.Model, couplings ...Coupling) *Engine {
	return &Engine{
		model:     model,
		couplings: couplings,
		phase:     PhaseUninitialized,
	}
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// IsCalibrated reports whether a neutral pose has been captured.
func (e *Engine) IsCalibrated() bool {
	return e.phase == PhaseCalibrated || e.phase == PhaseRunning
}

// Registry exposes the segment registry of the current rig, or nil while
// uninitialized.
func (e *Engine) Registry() *Registry { return e.reg }

// Model returns the static model the engine was built over.
func (e *Engine) Model() *anatomy.Model { return e.model }

// Initialize builds and validates the segment registry against a rig.
// Joints whose segments do not resolve are skipped and reported in the
// result; the engine stays usable for the rest. Never fatal.
func (e *Engine) Initialize(r rig.Rig) InitResult {
	e.Reset()
	e.reg = NewRegistry(e.model, r)
	e.byID = make(map[anatomy.JointID]*engineJoint, len(e.model.Joints))
	e.lastWorld = make(map[anatomy.SegmentID]qspace.Orientation)

	var res InitResult
	for i := range e.model.Joints {
		def := &e.model.Joints[i]
		if _, err := e.reg.Resolve(def.Parent); err != nil {
			res.Skipped = append(res.Skipped, SkippedJoint{Joint: def.ID, Reason: err})
			continue
		}
		if _, err := e.reg.Resolve(def.Child); err != nil {
			res.Skipped = append(res.Skipped, SkippedJoint{Joint: def.ID, Reason: err})
			continue
		}
		ej := &engineJoint{def: def}
		e.joints = append(e.joints, ej)
		e.byID[def.ID] = ej
		res.Constructed = append(res.Constructed, def.ID)
	}
	e.phase = PhaseInitialized
	return res
}

// CalibrateNeutral captures the current relative orientation of every
// constructible joint as its zero reference. Recalibration overwrites the
// prior neutral without a reset.
func (e *Engine) CalibrateNeutral(label string) (CalibrationResult, error) {
	if e.phase == PhaseUninitialized {
		return CalibrationResult{}, ErrUninitialized
	}
	res := CalibrationResult{Label: label, At: time.Now()}
	for _, ej := range e.joints {
		rel, ok := e.relativeOrientation(ej.def)
		if !ok {
			res.Skipped++
			continue
		}
		ej.neutral = rel
		ej.calibrated = true
		res.Calibrated++
	}
	if res.Calibrated > 0 && e.phase == PhaseInitialized {
		e.phase = PhaseCalibrated
	}
	e.calLabel = label
	return res, nil
}

// CalibrationLabel returns the label of the last calibration.
func (e *Engine) CalibrationLabel() string { return e.calLabel }

// Update recomputes relative orientation, deviation and coordinate values
// for every calibrated joint, in declaration order, and rebuilds the
// ModelState snapshot wholesale. It returns the coordinates whose raw
// value fell outside their range before clamping. Calling Update while
// uninitialized is a caller ordering bug.
func (e *Engine) Update(dt time.Duration) (UpdateResult, error) {
	switch e.phase {
	case PhaseUninitialized:
		return UpdateResult{}, ErrUninitialized
	case PhaseInitialized:
		return UpdateResult{}, ErrNotCalibrated
	}
	e.lastStep = dt
	now := time.Now()
	e.snapshot = ModelState{
		Timestamp: now,
		Values:    make(map[anatomy.CoordinateID]float64),
		Joints:    make(map[anatomy.JointID]JointState),
	}

	var out UpdateResult
	for _, ej := range e.joints {
		violations, ok := e.refreshJoint(ej, now)
		if !ok {
			continue
		}
		out.Violations = append(out.Violations, violations...)
	}

	// Secondary pass: rhythm coupling reads the just-updated snapshot and
	// writes only proximal joints. It must not re-enter Update.
	out.Violations = append(out.Violations, e.applyCouplings(now)...)

	e.phase = PhaseRunning
	return out, nil
}

// ApplyCoordinates drives a joint to the given coordinate values
// (declaration order) by rebuilding the relative orientation and writing
// it onto the child segment against the parent's current world
// orientation, so edits compose correctly under a moving parent chain.
// Locked coordinates keep their current value; the input is discarded.
func (e *Engine) ApplyCoordinates(id anatomy.JointID, values [3]float64) error {
	switch e.phase {
	case PhaseUninitialized:
		return ErrUninitialized
	case PhaseInitialized:
		return ErrNotCalibrated
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownJoint, id)
	}
	ej, ok := e.byID[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrJointUnavailable, id)
	}
	if !ej.calibrated {
		return fmt.Errorf("%w: %v", ErrNotCalibrated, id)
	}

	def := ej.def
	vals := make([]float64, len(def.Coordinates))
	for i := range def.Coordinates {
		c := &def.Coordinates[i]
		switch {
		case c.Locked:
			vals[i] = e.currentValue(ej, i)
		default:
			vals[i] = values[i]
		}
	}

	if err := e.writeJoint(ej, vals); err != nil {
		return err
	}
	if e.snapshot.Joints != nil {
		e.refreshJoint(ej, time.Now())
	}
	return nil
}

// JointState returns the latest snapshot for a joint. Absent until the
// first successful Update covering that joint.
func (e *Engine) JointState(id anatomy.JointID) (JointState, bool) {
	ej, ok := e.byID[id]
	if !ok || !ej.hasState {
		return JointState{}, false
	}
	return ej.state, true
}

// Snapshot returns the current ModelState. The maps inside are owned by
// the engine and rebuilt each tick; read them only between ticks.
func (e *Engine) Snapshot() ModelState { return e.snapshot }

// Reset tears the engine down to Uninitialized and clears every cache, so
// in-flight readers see "uncalibrated" rather than stale data.
func (e *Engine) Reset() {
	e.phase = PhaseUninitialized
	e.reg = nil
	e.joints = nil
	e.byID = nil
	e.snapshot = ModelState{}
	e.calLabel = ""
	e.lastWorld = nil
}

// worldOf resolves a segment's world orientation, falling back to the
// last successfully resolved value when the segment is transiently
// unresolved (rig reload).
func (e *Engine) worldOf(id anatomy.SegmentID) (qspace.Orientation, bool) {
	if q, ok := e.reg.WorldOrientation(id); ok {
		e.lastWorld[id] = q
		return q, true
	}
	q, ok := e.lastWorld[id]
	return q, ok
}

// relativeOrientation computes inverse(parent) · child for a joint.
func (e *Engine) relativeOrientation(def *anatomy.Joint) (qspace.Orientation, bool) {
	parent, ok := e.worldOf(def.Parent)
	if !ok {
		return qspace.Orientation{}, false
	}
	child, ok := e.worldOf(def.Child)
	if !ok {
		return qspace.Orientation{}, false
	}
	return qspace.Relative(parent, child), true
}

// refreshJoint recomputes one joint's state and folds it into the
// snapshot, returning its ROM violations.
func (e *Engine) refreshJoint(ej *engineJoint, now time.Time) ([]Violation, bool) {
	if !ej.calibrated {
		return nil, false
	}
	rel, ok := e.relativeOrientation(ej.def)
	if !ok {
		// Joint temporarily unavailable: drop it from the snapshot rather
		// than publish stale values.
		ej.hasState = false
		delete(e.snapshot.Joints, ej.def.ID)
		return nil, false
	}
	dev := qspace.Deviation(ej.neutral, rel)
	samples := ej.def.Angles(dev)

	js := JointState{
		Joint:       ej.def.ID,
		JointName:   ej.def.ID.String(),
		Coordinates: make(map[anatomy.CoordinateID]CoordinateState, len(samples)),
		Relative:    rel,
		Neutral:     ej.neutral,
		Deviation:   dev,
	}
	var violations []Violation
	for i, s := range samples {
		c := &ej.def.Coordinates[i]
		cid := ej.def.CoordinateID(i)
		js.Coordinates[cid] = CoordinateState{
			Value:     s.Value,
			Locked:    c.Locked,
			Clamped:   s.OutOfRange,
			Timestamp: now,
		}
		e.snapshot.Values[cid] = s.Value
		if s.OutOfRange {
			violations = append(violations, Violation{
				Joint:      ej.def.ID,
				Coordinate: cid,
				Value:      s.Value,
				Min:        c.Min,
				Max:        c.Max,
			})
		}
	}
	ej.state = js
	ej.hasState = true
	e.snapshot.Joints[ej.def.ID] = js
	return violations, true
}

// writeJoint rebuilds the relative orientation for the given coordinate
// values and pushes it onto the joint's child segment.
func (e *Engine) writeJoint(ej *engineJoint, values []float64) error {
	dev := ej.def.Orientation(values)
	rel := qspace.Absolute(ej.neutral, dev)
	parent, ok := e.worldOf(ej.def.Parent)
	if !ok {
		return fmt.Errorf("%w: %v", ErrSegmentUnresolved, ej.def.Parent)
	}
	world := parent.Mul(rel)
	if err := e.reg.setWorldOrientation(ej.def.Child, world); err != nil {
		return err
	}
	e.lastWorld[ej.def.Child] = world
	return nil
}

// currentValue reads a coordinate's latest value, falling back to its
// neutral when no sample exists yet.
func (e *Engine) currentValue(ej *engineJoint, i int) float64 {
	if ej.hasState {
		if cs, ok := ej.state.Coordinates[ej.def.CoordinateID(i)]; ok {
			return cs.Value
		}
	}
	return ej.def.Coordinates[i].Neutral
}

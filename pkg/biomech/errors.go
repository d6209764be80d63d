package biomech

import "errors"

// Sentinel errors for engine and registry conditions. Unresolved or
// not-yet-calibrated conditions are expected transient states; callers
// render "no data" instead of crashing. ErrUninitialized is the one
// caller-ordering bug: Update or ApplyCoordinates before Initialize.
var (
	// ErrUninitialized is returned when Update or ApplyCoordinates is
	// invoked with no rig bound. This is a programmer error in the caller,
	// not a rig condition.
	ErrUninitialized = errors.New("biomech: engine not initialized")

	// ErrNotCalibrated is returned for reads and writes that need a stored
	// neutral orientation before CalibrateNeutral has succeeded.
	ErrNotCalibrated = errors.New("biomech: neutral pose not calibrated")

	// ErrUnknownJoint is returned for an id outside the model.
	ErrUnknownJoint = errors.New("biomech: unknown joint")

	// ErrJointUnavailable is returned for a joint that could not be
	// constructed against the current rig.
	ErrJointUnavailable = errors.New("biomech: joint unavailable")

	// ErrUnknownSegment is returned for an id outside the model.
	ErrUnknownSegment = errors.New("biomech: unknown segment")

	// ErrSegmentUnresolved is returned when a rig-bound segment's node is
	// absent from the current rig.
	ErrSegmentUnresolved = errors.New("biomech: segment unresolved")

	// ErrVirtualFrameUnset is returned when a virtual segment has no
	// registered frame.
	ErrVirtualFrameUnset = errors.New("biomech: virtual frame not yet set")

	// ErrNotVirtual is returned when SetVirtualFrame targets a rig-bound
	// segment.
	ErrNotVirtual = errors.New("biomech: segment is not virtual")
)

package anatomy

import (
	"github.com/biomechlab/go-biomech/pkg/qspace"
)

// Sample is one decomposed coordinate value.
type Sample struct {
	// Value is the displayed coordinate value in radians. For clamped
	// coordinates it is already restricted to [Min, Max].
	Value float64

	// OutOfRange reports whether the raw value fell outside [Min, Max]
	// before any clamping. This is the ROM-violation signal.
	OutOfRange bool
}

// Angles decomposes a deviation orientation into the joint's generalized
// coordinates. The result is in coordinate declaration order, but each
// coordinate reads the decomposed angle at its declared Index, so
// reordering the declaration list never changes which angle a coordinate
// reports. Invert flips the sign at this boundary only; Neutral offsets
// and range clamping are applied last.
func (j *Joint) Angles(deviation qspace.Orientation) []Sample {
	angles := qspace.Decompose(deviation, j.Order)
	out := make([]Sample, len(j.Coordinates))
	for i := range j.Coordinates {
		c := &j.Coordinates[i]
		v := angles[c.Index]
		if c.Invert {
			v = -v
		}
		v += c.Neutral

		s := Sample{Value: v}
		if v < c.Min || v > c.Max {
			s.OutOfRange = true
			if c.Clamped {
				s.Value, _ = qspace.ClampRange(v, c.Min, c.Max)
			}
		}
		out[i] = s
	}
	return out
}

// Orientation rebuilds a deviation orientation from coordinate values
// given in declaration order. It is the exact inverse of Angles for
// in-range, non-clamped values. Angle slots not owned by any coordinate
// (joints with fewer than three DOF) stay zero.
func (j *Joint) Orientation(values []float64) qspace.Orientation {
	var angles [3]float64
	for i := range j.Coordinates {
		if i >= len(values) {
			break
		}
		c := &j.Coordinates[i]
		v := values[i] - c.Neutral
		if c.Invert {
			v = -v
		}
		angles[c.Index] = v
	}
	return qspace.Compose(angles, j.Order)
}

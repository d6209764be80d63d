package qspace

// Relative returns the orientation of child expressed in parent's frame:
// inverse(parent) · child.
func Relative(parent, child Orientation) Orientation {
	return parent.Inv().Mul(child)
}

// Deviation returns the rotation from a calibrated neutral relative
// orientation to the current one: inverse(neutral) · relative.
func Deviation(neutral, relative Orientation) Orientation {
	return neutral.Inv().Mul(relative)
}

// Absolute rebuilds a relative orientation from a neutral reference and a
// deviation: neutral · deviation. Inverse of Deviation.
func Absolute(neutral, deviation Orientation) Orientation {
	return neutral.Mul(deviation)
}

// ClampRange restricts v to [min, max] and reports whether clamping
// occurred. Clamping an in-range value is a no-op.
func ClampRange(v, min, max float64) (float64, bool) {
	if v < min {
		return min, true
	}
	if v > max {
		return max, true
	}
	return v, false
}

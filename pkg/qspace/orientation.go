// Package qspace implements the pure orientation math behind the joint
// kinematics engine: unit-quaternion products, body-fixed Euler angle
// decomposition across all six axis orders, and the relative/deviation
// operators that neutral-pose calibration is built on.
//
// All angles are radians. Rotations are active and compose left to right
// in the body-fixed sense: a.Mul(b) applies a, then b in a's rotated frame.
package qspace

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis identifies one of the three body-fixed rotation axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "X", "Y" or "Z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Vec returns the unit vector along the axis.
func (a Axis) Vec() r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: 1}
	case AxisY:
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

// Orientation is a rotation represented as a unit quaternion.
// The zero value is not a valid rotation; use Identity.
type Orientation struct {
	q quat.Number
}

// Identity returns the no-rotation orientation.
func Identity() Orientation {
	return Orientation{quat.Number{Real: 1}}
}

// New builds an Orientation from quaternion components (w, x, y, z),
// normalized to unit length.
func New(w, x, y, z float64) Orientation {
	return Orientation{quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}.normalized()
}

// AboutAxis returns the rotation of angle radians about a principal axis.
func AboutAxis(a Axis, angle float64) Orientation {
	half := 0.5 * angle
	s := math.Sin(half)
	v := a.Vec()
	return Orientation{quat.Number{
		Real: math.Cos(half),
		Imag: s * v.X,
		Jmag: s * v.Y,
		Kmag: s * v.Z,
	}}
}

// AboutVec returns the rotation of angle radians about an arbitrary axis.
func AboutVec(axis r3.Vec, angle float64) Orientation {
	n := r3.Norm(axis)
	if n == 0 {
		return Identity()
	}
	half := 0.5 * angle
	s := math.Sin(half) / n
	return Orientation{quat.Number{
		Real: math.Cos(half),
		Imag: s * axis.X,
		Jmag: s * axis.Y,
		Kmag: s * axis.Z,
	}}
}

// W, X, Y, Z expose the quaternion components.
func (o Orientation) W() float64 { return o.q.Real }
func (o Orientation) X() float64 { return o.q.Imag }
func (o Orientation) Y() float64 { return o.q.Jmag }
func (o Orientation) Z() float64 { return o.q.Kmag }

// Mul composes two rotations: o first, then p in o's rotated frame.
func (o Orientation) Mul(p Orientation) Orientation {
	return Orientation{quat.Mul(o.q, p.q)}
}

// Inv returns the inverse rotation.
func (o Orientation) Inv() Orientation {
	return Orientation{quat.Conj(o.q)}.normalized()
}

// Rotate applies the rotation to a vector.
func (o Orientation) Rotate(v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(o.q, p), quat.Conj(o.q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Dot returns the quaternion dot product. Its magnitude is 1 when the two
// orientations represent the same rotation.
func (o Orientation) Dot(p Orientation) float64 {
	return o.q.Real*p.q.Real + o.q.Imag*p.q.Imag + o.q.Jmag*p.q.Jmag + o.q.Kmag*p.q.Kmag
}

// Angle returns the magnitude of the rotation in radians, in [0, π].
func (o Orientation) Angle() float64 {
	w := math.Abs(o.normalized().q.Real)
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

// Equivalent reports whether two orientations represent the same rotation
// within tol radians. q and -q are the same rotation.
func (o Orientation) Equivalent(p Orientation, tol float64) bool {
	return o.Inv().Mul(p).Angle() <= tol
}

func (o Orientation) normalized() Orientation {
	n := quat.Abs(o.q)
	if n == 0 {
		return Identity()
	}
	return Orientation{quat.Scale(1/n, o.q)}
}

// matrix returns the 3x3 rotation matrix of the orientation, row-major.
func (o Orientation) matrix() [3][3]float64 {
	q := o.normalized().q
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

// MarshalJSON encodes the orientation as {"w":..,"x":..,"y":..,"z":..}.
func (o Orientation) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, `{"w":%g,"x":%g,"y":%g,"z":%g}`,
		o.q.Real, o.q.Imag, o.q.Jmag, o.q.Kmag), nil
}

// UnmarshalJSON decodes {"w":..,"x":..,"y":..,"z":..} and renormalizes.
func (o *Orientation) UnmarshalJSON(data []byte) error {
	var c struct {
		W float64 `json:"w"`
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*o = New(c.W, c.X, c.Y, c.Z)
	return nil
}

func (o Orientation) String() string {
	return fmt.Sprintf("(w=%.4f x=%.4f y=%.4f z=%.4f)", o.q.Real, o.q.Imag, o.q.Jmag, o.q.Kmag)
}

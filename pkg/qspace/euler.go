package qspace

import (
	"fmt"
	"math"
)

// Order is a body-fixed rotation-decomposition order, one of the six
// permutations of the X, Y, Z axes. OrderXZY means: rotate about body X,
// then body Z, then body Y.
type Order uint8

const (
	OrderXYZ Order = iota
	OrderXZY
	OrderYXZ
	OrderYZX
	OrderZXY
	OrderZYX
)

var orderAxes = [6][3]Axis{
	OrderXYZ: {AxisX, AxisY, AxisZ},
	OrderXZY: {AxisX, AxisZ, AxisY},
	OrderYXZ: {AxisY, AxisX, AxisZ},
	OrderYZX: {AxisY, AxisZ, AxisX},
	OrderZXY: {AxisZ, AxisX, AxisY},
	OrderZYX: {AxisZ, AxisY, AxisX},
}

// Orders lists all six supported decomposition orders.
func Orders() []Order {
	return []Order{OrderXYZ, OrderXZY, OrderYXZ, OrderYZX, OrderZXY, OrderZYX}
}

// Axes returns the three axes of the order, first to last.
func (o Order) Axes() [3]Axis {
	return orderAxes[o]
}

// IndexOf returns the position of axis within the order, or -1 if the
// order is invalid.
func (o Order) IndexOf(a Axis) int {
	for i, ax := range o.Axes() {
		if ax == a {
			return i
		}
	}
	return -1
}

func (o Order) String() string {
	if int(o) >= len(orderAxes) {
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
	ax := o.Axes()
	return ax[0].String() + ax[1].String() + ax[2].String()
}

// ParseOrder converts a string like "XZY" into an Order.
func ParseOrder(s string) (Order, error) {
	for _, o := range Orders() {
		if o.String() == s {
			return o, nil
		}
	}
	return OrderXYZ, fmt.Errorf("qspace: unknown rotation order %q", s)
}

// Compose builds the orientation that rotates by angles[0] about the first
// axis of the order, then angles[1] and angles[2] about the body-fixed
// second and third axes. It is the exact inverse of Decompose for middle
// angles away from ±π/2.
func Compose(angles [3]float64, order Order) Orientation {
	ax := order.Axes()
	return AboutAxis(ax[0], angles[0]).
		Mul(AboutAxis(ax[1], angles[1])).
		Mul(AboutAxis(ax[2], angles[2]))
}

// gimbalEps is the margin below which the middle angle is treated as
// saturated at ±π/2 and the first/third angles become coupled.
const gimbalEps = 1e-7

// Decompose extracts the three body-fixed angles of the orientation in the
// given order. angles[i] is the rotation about order.Axes()[i]. At gimbal
// lock the third angle is folded into the first and reported as zero.
func Decompose(o Orientation, order Order) [3]float64 {
	m := o.matrix()
	var a, b, c float64
	switch order {
	case OrderXYZ:
		b = math.Asin(clamp1(m[0][2]))
		if math.Abs(m[0][2]) < 1-gimbalEps {
			a = math.Atan2(-m[1][2], m[2][2])
			c = math.Atan2(-m[0][1], m[0][0])
		} else {
			a = math.Atan2(m[2][1], m[1][1])
		}
	case OrderXZY:
		b = math.Asin(-clamp1(m[0][1]))
		if math.Abs(m[0][1]) < 1-gimbalEps {
			a = math.Atan2(m[2][1], m[1][1])
			c = math.Atan2(m[0][2], m[0][0])
		} else {
			a = math.Atan2(-m[1][2], m[2][2])
		}
	case OrderYXZ:
		b = math.Asin(-clamp1(m[1][2]))
		if math.Abs(m[1][2]) < 1-gimbalEps {
			a = math.Atan2(m[0][2], m[2][2])
			c = math.Atan2(m[1][0], m[1][1])
		} else {
			a = math.Atan2(-m[2][0], m[0][0])
		}
	case OrderYZX:
		b = math.Asin(clamp1(m[1][0]))
		if math.Abs(m[1][0]) < 1-gimbalEps {
			a = math.Atan2(-m[2][0], m[0][0])
			c = math.Atan2(-m[1][2], m[1][1])
		} else {
			a = math.Atan2(m[0][2], m[2][2])
		}
	case OrderZXY:
		b = math.Asin(clamp1(m[2][1]))
		if math.Abs(m[2][1]) < 1-gimbalEps {
			a = math.Atan2(-m[0][1], m[1][1])
			c = math.Atan2(-m[2][0], m[2][2])
		} else {
			a = math.Atan2(m[1][0], m[0][0])
		}
	case OrderZYX:
		b = math.Asin(-clamp1(m[2][0]))
		if math.Abs(m[2][0]) < 1-gimbalEps {
			a = math.Atan2(m[1][0], m[0][0])
			c = math.Atan2(m[2][1], m[2][2])
		} else {
			a = math.Atan2(-m[0][1], m[1][1])
		}
	}
	return [3]float64{a, b, c}
}

func clamp1(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

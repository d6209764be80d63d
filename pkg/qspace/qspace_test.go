package qspace

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const angleTolerance = 1e-9

func anglesClose(got, want [3]float64, tol float64) bool {
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}

func TestAboutAxis_RotatesVector(t *testing.T) {
	// 90° about Z maps X onto Y.
	q := AboutAxis(AxisZ, math.Pi/2)
	v := q.Rotate(r3.Vec{X: 1})
	if math.Abs(v.X) > 1e-12 || math.Abs(v.Y-1) > 1e-12 || math.Abs(v.Z) > 1e-12 {
		t.Errorf("Rotate: got %+v, want (0,1,0)", v)
	}
}

func TestRelative_InverseOfMul(t *testing.T) {
	parent := AboutAxis(AxisY, 0.7)
	rel := AboutAxis(AxisX, -0.4).Mul(AboutAxis(AxisZ, 0.2))
	child := parent.Mul(rel)

	got := Relative(parent, child)
	if !got.Equivalent(rel, angleTolerance) {
		t.Errorf("Relative: got %v, want %v", got, rel)
	}
}

func TestDeviation_IdentityAtNeutral(t *testing.T) {
	rel := AboutAxis(AxisX, 1.1).Mul(AboutAxis(AxisY, -0.3))
	dev := Deviation(rel, rel)
	if dev.Angle() > angleTolerance {
		t.Errorf("deviation of a pose from itself: angle %v, want 0", dev.Angle())
	}
}

func TestAbsolute_InverseOfDeviation(t *testing.T) {
	neutral := AboutAxis(AxisZ, 0.5)
	rel := AboutAxis(AxisZ, 0.5).Mul(AboutAxis(AxisX, 0.9))
	dev := Deviation(neutral, rel)
	back := Absolute(neutral, dev)
	if !back.Equivalent(rel, angleTolerance) {
		t.Errorf("Absolute(Deviation): got %v, want %v", back, rel)
	}
}

func TestDecompose_SingleAxis(t *testing.T) {
	for _, order := range Orders() {
		axes := order.Axes()
		for i, axis := range axes {
			q := AboutAxis(axis, 0.6)
			angles := Decompose(q, order)
			want := [3]float64{}
			want[i] = 0.6
			if !anglesClose(angles, want, 1e-9) {
				t.Errorf("order %v axis %v: got %v, want %v", order, axis, angles, want)
			}
		}
	}
}

func TestComposeDecompose_RoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0.3, 0.2, 0.1},
		{-0.8, 0.5, 1.2},
		{1.4, -1.0, -0.6},
		{0.01, -0.02, 0.03},
		{math.Pi / 2, 0.4, -0.9}, // first angle at 90° is fine; only the middle saturates
	}
	for _, order := range Orders() {
		for _, want := range cases {
			q := Compose(want, order)
			got := Decompose(q, order)
			if !anglesClose(got, want, 1e-4) {
				t.Errorf("order %v: round trip got %v, want %v", order, got, want)
			}
		}
	}
}

func TestDecompose_GimbalLockStillRebuilds(t *testing.T) {
	// With the middle angle saturated the individual angles are not unique,
	// but recomposing them must reproduce the same rotation.
	for _, order := range Orders() {
		in := [3]float64{0.4, math.Pi / 2, -0.3}
		q := Compose(in, order)
		angles := Decompose(q, order)
		back := Compose(angles, order)
		if !back.Equivalent(q, 1e-6) {
			t.Errorf("order %v: gimbal recompose diverged by %v rad", order, back.Inv().Mul(q).Angle())
		}
	}
}

func TestOrder_IndexOf(t *testing.T) {
	if got := OrderXZY.IndexOf(AxisZ); got != 1 {
		t.Errorf("OrderXZY.IndexOf(Z): got %d, want 1", got)
	}
	if got := OrderZYX.IndexOf(AxisX); got != 2 {
		t.Errorf("OrderZYX.IndexOf(X): got %d, want 2", got)
	}
}

func TestParseOrder(t *testing.T) {
	for _, order := range Orders() {
		got, err := ParseOrder(order.String())
		if err != nil || got != order {
			t.Errorf("ParseOrder(%q): got %v, %v", order.String(), got, err)
		}
	}
	if _, err := ParseOrder("XXY"); err == nil {
		t.Error("ParseOrder(XXY): expected error")
	}
}

func TestClampRange(t *testing.T) {
	if v, clamped := ClampRange(0.5, 0, 1); v != 0.5 || clamped {
		t.Errorf("in-range clamp: got %v, %v", v, clamped)
	}
	if v, clamped := ClampRange(1.5, 0, 1); v != 1 || !clamped {
		t.Errorf("above-range clamp: got %v, %v", v, clamped)
	}
	// Clamping twice equals clamping once.
	v, _ := ClampRange(-2, 0, 1)
	if v2, clamped := ClampRange(v, 0, 1); v2 != v || clamped {
		t.Errorf("clamp not idempotent: %v -> %v (clamped=%v)", v, v2, clamped)
	}
}

func TestOrientation_InvMul(t *testing.T) {
	q := New(0.3, 0.5, -0.2, 0.8)
	id := q.Inv().Mul(q)
	if id.Angle() > angleTolerance {
		t.Errorf("inv(q)*q: angle %v, want 0", id.Angle())
	}
}

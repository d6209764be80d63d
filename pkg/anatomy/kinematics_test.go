package anatomy

import (
	"math"
	"testing"

	"github.com/biomechlab/go-biomech/pkg/qspace"
)

const roundTripTolerance = 1e-4

// testJoint builds a free 3-DOF joint with the given order and coordinate
// declaration order. Indices follow the axis positions within the order.
func testJoint(order qspace.Order, axes []qspace.Axis) *Joint {
	j := &Joint{
		ID:     JointKneeL, // id is irrelevant for the math under test
		Parent: SegThighL,
		Child:  SegShankL,
		Kind:   KindCustom3DOF,
		Order:  order,
	}
	names := map[qspace.Axis]string{qspace.AxisX: "cx", qspace.AxisY: "cy", qspace.AxisZ: "cz"}
	for _, a := range axes {
		j.Coordinates = append(j.Coordinates, Coordinate{
			Name:  names[a],
			Axis:  a,
			Index: order.IndexOf(a),
			Min:   -math.Pi,
			Max:   math.Pi,
		})
	}
	return j
}

func TestJoint_AnglesOrientation_RoundTrip(t *testing.T) {
	values := []float64{0.7, -0.4, 0.25}
	for _, order := range qspace.Orders() {
		ax := order.Axes()
		j := testJoint(order, ax[:])
		dev := j.Orientation(values)
		got := j.Angles(dev)
		for i, s := range got {
			if math.Abs(s.Value-values[i]) > roundTripTolerance {
				t.Errorf("order %v coord %d: got %v, want %v", order, i, s.Value, values[i])
			}
			if s.OutOfRange {
				t.Errorf("order %v coord %d: unexpected OutOfRange", order, i)
			}
		}
	}
}

func TestJoint_Angles_IndexIndependence(t *testing.T) {
	// Reordering the declaration list while keeping each coordinate's
	// declared index must not change which value each coordinate reports.
	order := qspace.OrderZXY
	ax := order.Axes()
	j1 := testJoint(order, []qspace.Axis{ax[0], ax[1], ax[2]})
	j2 := testJoint(order, []qspace.Axis{ax[2], ax[0], ax[1]})

	dev := qspace.Compose([3]float64{0.5, -0.3, 0.8}, order)
	s1 := j1.Angles(dev)
	s2 := j2.Angles(dev)

	byName := func(j *Joint, s []Sample, name string) float64 {
		i := j.CoordinateIndex(name)
		if i < 0 {
			t.Fatalf("coordinate %q missing", name)
		}
		return s[i].Value
	}
	for _, name := range []string{"cx", "cy", "cz"} {
		v1 := byName(j1, s1, name)
		v2 := byName(j2, s2, name)
		if math.Abs(v1-v2) > 1e-12 {
			t.Errorf("%s: %v vs %v after reordering declaration", name, v1, v2)
		}
	}
}

func TestJoint_Angles_InvertIsBoundarySignFlip(t *testing.T) {
	order := qspace.OrderXZY
	j := testJoint(order, []qspace.Axis{qspace.AxisX})
	inv := testJoint(order, []qspace.Axis{qspace.AxisX})
	inv.Coordinates[0].Invert = true

	dev := qspace.AboutAxis(qspace.AxisX, 0.9)
	plain := j.Angles(dev)[0].Value
	flipped := inv.Angles(dev)[0].Value

	if math.Abs(plain+flipped) > 1e-12 {
		t.Errorf("invert: %v vs %v, want exact negation", plain, flipped)
	}

	// Negating the underlying rotation gives the same displayed value as
	// flipping after decomposition.
	neg := j.Angles(qspace.AboutAxis(qspace.AxisX, -0.9))[0].Value
	if math.Abs(neg-flipped) > 1e-12 {
		t.Errorf("invert is not a pure post-processing flip: %v vs %v", neg, flipped)
	}
}

func TestJoint_Angles_ClampAndViolation(t *testing.T) {
	j := testJoint(qspace.OrderXZY, []qspace.Axis{qspace.AxisX})
	j.Coordinates[0].Min = 0
	j.Coordinates[0].Max = deg(150)
	j.Coordinates[0].Clamped = true

	// In range: no clamp, no violation.
	s := j.Angles(qspace.AboutAxis(qspace.AxisX, deg(90)))[0]
	if s.OutOfRange {
		t.Error("90° flagged out of range")
	}
	if math.Abs(s.Value-deg(90)) > roundTripTolerance {
		t.Errorf("90°: got %v rad", s.Value)
	}

	// Beyond max: flagged, and the value clamps to exactly the limit.
	s = j.Angles(qspace.AboutAxis(qspace.AxisX, deg(170)))[0]
	if !s.OutOfRange {
		t.Error("170° not flagged out of range")
	}
	if s.Value != deg(150) {
		t.Errorf("170°: clamped value %v, want %v", s.Value, deg(150))
	}

	// Unclamped coordinate keeps the raw value but still reports the
	// violation.
	j.Coordinates[0].Clamped = false
	s = j.Angles(qspace.AboutAxis(qspace.AxisX, deg(170)))[0]
	if !s.OutOfRange || math.Abs(s.Value-deg(170)) > roundTripTolerance {
		t.Errorf("unclamped 170°: got %+v", s)
	}
}

func TestJoint_Orientation_NeutralOffset(t *testing.T) {
	j := testJoint(qspace.OrderXZY, []qspace.Axis{qspace.AxisX})
	j.Coordinates[0].Neutral = deg(10)

	// Zero deviation reads back the neutral value.
	s := j.Angles(qspace.Identity())[0]
	if math.Abs(s.Value-deg(10)) > 1e-12 {
		t.Errorf("neutral offset: got %v, want %v", s.Value, deg(10))
	}

	// Writing the neutral value produces zero deviation.
	dev := j.Orientation([]float64{deg(10)})
	if dev.Angle() > 1e-12 {
		t.Errorf("writing neutral: deviation angle %v, want 0", dev.Angle())
	}
}

func TestJoint_Orientation_TwoDOFLeavesGapZero(t *testing.T) {
	// Elbow-style joint: indices 0 and 2, slot 1 unowned.
	order := qspace.OrderXZY
	j := testJoint(order, []qspace.Axis{qspace.AxisX, qspace.AxisY})
	dev := j.Orientation([]float64{0.6, -0.3})
	angles := qspace.Decompose(dev, order)
	if math.Abs(angles[1]) > 1e-9 {
		t.Errorf("unowned middle angle: got %v, want 0", angles[1])
	}
}

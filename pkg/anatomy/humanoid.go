package anatomy

import (
	"math"

	"github.com/biomechlab/go-biomech/pkg/qspace"
	"gonum.org/v1/gonum/spatial/r3"
)

// Segment frame convention (right-handed): X mediolateral (flexion axis),
// Y longitudinal (axial rotation), Z anteroposterior (ab/adduction axis).
//
// Displayed signs follow the left-side clinical convention; right-side
// ab/adduction and axial-rotation coordinates carry Invert so both sides
// report abduction and external rotation as positive. These signs are
// pinned here as explicit configuration, never inferred at runtime.

func deg(d float64) float64 { return d * math.Pi / 180 }

// Humanoid returns the built-in humanoid model. Rig-bound segments use
// Mixamo-style node names; the scapulae are virtual frames hung off the
// torso so scapulohumeral rhythm has a segment to act on.
func Humanoid() *Model {
	m := &Model{
		Segments: []Segment{
			{ID: SegPelvis, Display: "Pelvis", Source: SourceRigNode, RigNode: "Hips"},
			{ID: SegTorso, Display: "Torso", Source: SourceRigNode, RigNode: "Spine2"},
			{ID: SegHead, Display: "Head", Source: SourceRigNode, RigNode: "Head"},
			{
				ID: SegScapulaL, Display: "Left Scapula", Source: SourceVirtual,
				VirtualParent: SegTorso, VirtualOffset: r3.Vec{X: -0.08, Y: 0.35, Z: -0.04},
				VirtualRotation: qspace.Identity(),
			},
			{
				ID: SegScapulaR, Display: "Right Scapula", Source: SourceVirtual,
				VirtualParent: SegTorso, VirtualOffset: r3.Vec{X: 0.08, Y: 0.35, Z: -0.04},
				VirtualRotation: qspace.Identity(),
			},
			{ID: SegUpperArmL, Display: "Left Upper Arm", Source: SourceRigNode, RigNode: "LeftArm"},
			{ID: SegUpperArmR, Display: "Right Upper Arm", Source: SourceRigNode, RigNode: "RightArm"},
			{ID: SegForearmL, Display: "Left Forearm", Source: SourceRigNode, RigNode: "LeftForeArm"},
			{ID: SegForearmR, Display: "Right Forearm", Source: SourceRigNode, RigNode: "RightForeArm"},
			{ID: SegHandL, Display: "Left Hand", Source: SourceRigNode, RigNode: "LeftHand"},
			{ID: SegHandR, Display: "Right Hand", Source: SourceRigNode, RigNode: "RightHand"},
			{ID: SegThighL, Display: "Left Thigh", Source: SourceRigNode, RigNode: "LeftUpLeg"},
			{ID: SegThighR, Display: "Right Thigh", Source: SourceRigNode, RigNode: "RightUpLeg"},
			{ID: SegShankL, Display: "Left Shank", Source: SourceRigNode, RigNode: "LeftLeg"},
			{ID: SegShankR, Display: "Right Shank", Source: SourceRigNode, RigNode: "RightLeg"},
			{ID: SegFootL, Display: "Left Foot", Source: SourceRigNode, RigNode: "LeftFoot"},
			{ID: SegFootR, Display: "Right Foot", Source: SourceRigNode, RigNode: "RightFoot"},
		},
		Joints: []Joint{
			{
				// Order ZXY: lateral bend leads so trunk list order differs
				// from decomposition order on purpose.
				ID: JointLumbar, Display: "Lumbar Spine", Parent: SegPelvis, Child: SegTorso,
				Kind: KindCustom3DOF, Order: qspace.OrderZXY,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 1, Min: deg(-30), Max: deg(80), Clamped: true},
					{Name: "lateral_bend", Display: "Lateral Bend", Axis: qspace.AxisZ, Index: 0, Min: deg(-35), Max: deg(35), Clamped: true},
					{Name: "axial_rotation", Display: "Axial Rotation", Axis: qspace.AxisY, Index: 2, Min: deg(-45), Max: deg(45), Clamped: true},
				},
			},
			{
				ID: JointNeck, Display: "Neck", Parent: SegTorso, Child: SegHead,
				Kind: KindCustom3DOF, Order: qspace.OrderYXZ,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 1, Min: deg(-55), Max: deg(70), Clamped: true},
					{Name: "axial_rotation", Display: "Axial Rotation", Axis: qspace.AxisY, Index: 0, Min: deg(-80), Max: deg(80), Clamped: true},
					{Name: "lateral_bend", Display: "Lateral Bend", Axis: qspace.AxisZ, Index: 2, Min: deg(-40), Max: deg(40), Clamped: true},
				},
			},
			{
				ID: JointScapulothoracicL, Display: "Left Scapulothoracic", Parent: SegTorso, Child: SegScapulaL,
				Kind: KindUniversal, Order: qspace.OrderZYX, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "upward_rotation", Display: "Upward Rotation", Axis: qspace.AxisZ, Index: 0, Min: deg(-10), Max: deg(60), Clamped: true},
					{Name: "protraction", Display: "Protraction", Axis: qspace.AxisY, Index: 1, Min: deg(-25), Max: deg(40), Clamped: true},
				},
			},
			{
				ID: JointScapulothoracicR, Display: "Right Scapulothoracic", Parent: SegTorso, Child: SegScapulaR,
				Kind: KindUniversal, Order: qspace.OrderZYX, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "upward_rotation", Display: "Upward Rotation", Axis: qspace.AxisZ, Index: 0, Min: deg(-10), Max: deg(60), Clamped: true, Invert: true},
					{Name: "protraction", Display: "Protraction", Axis: qspace.AxisY, Index: 1, Min: deg(-25), Max: deg(40), Clamped: true, Invert: true},
				},
			},
			{
				ID: JointGlenohumeralL, Display: "Left Shoulder", Parent: SegScapulaL, Child: SegUpperArmL,
				Kind: KindBall, Order: qspace.OrderXZY, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: deg(-60), Max: deg(180), Clamped: true},
					{Name: "abduction", Display: "Abduction/Adduction", Axis: qspace.AxisZ, Index: 1, Min: deg(-10), Max: deg(180), Clamped: true},
					{Name: "rotation", Display: "Internal/External Rotation", Axis: qspace.AxisY, Index: 2, Min: deg(-90), Max: deg(90), Clamped: true},
				},
			},
			{
				ID: JointGlenohumeralR, Display: "Right Shoulder", Parent: SegScapulaR, Child: SegUpperArmR,
				Kind: KindBall, Order: qspace.OrderXZY, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: deg(-60), Max: deg(180), Clamped: true},
					{Name: "abduction", Display: "Abduction/Adduction", Axis: qspace.AxisZ, Index: 1, Min: deg(-10), Max: deg(180), Clamped: true, Invert: true},
					{Name: "rotation", Display: "Internal/External Rotation", Axis: qspace.AxisY, Index: 2, Min: deg(-90), Max: deg(90), Clamped: true, Invert: true},
				},
			},
			{
				// Two active DOF at indices 0 and 2 of the order; index 1 is
				// deliberately unowned (no varus/valgus coordinate).
				ID: JointElbowL, Display: "Left Elbow", Parent: SegUpperArmL, Child: SegForearmL,
				Kind: KindUniversal, Order: qspace.OrderXZY, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: 0, Max: deg(150), Clamped: true},
					{Name: "pronation", Display: "Pronation/Supination", Axis: qspace.AxisY, Index: 2, Min: deg(-80), Max: deg(80), Clamped: true},
				},
			},
			{
				ID: JointElbowR, Display: "Right Elbow", Parent: SegUpperArmR, Child: SegForearmR,
				Kind: KindUniversal, Order: qspace.OrderXZY, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: 0, Max: deg(150), Clamped: true},
					{Name: "pronation", Display: "Pronation/Supination", Axis: qspace.AxisY, Index: 2, Min: deg(-80), Max: deg(80), Clamped: true, Invert: true},
				},
			},
			{
				ID: JointWristL, Display: "Left Wrist", Parent: SegForearmL, Child: SegHandL,
				Kind: KindUniversal, Order: qspace.OrderXZY, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: deg(-80), Max: deg(70), Clamped: true},
					{Name: "deviation", Display: "Radial/Ulnar Deviation", Axis: qspace.AxisZ, Index: 1, Min: deg(-20), Max: deg(30), Clamped: true},
				},
			},
			{
				ID: JointWristR, Display: "Right Wrist", Parent: SegForearmR, Child: SegHandR,
				Kind: KindUniversal, Order: qspace.OrderXZY, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: deg(-80), Max: deg(70), Clamped: true},
					{Name: "deviation", Display: "Radial/Ulnar Deviation", Axis: qspace.AxisZ, Index: 1, Min: deg(-20), Max: deg(30), Clamped: true, Invert: true},
				},
			},
			{
				ID: JointHipL, Display: "Left Hip", Parent: SegPelvis, Child: SegThighL,
				Kind: KindBall, Order: qspace.OrderXZY, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: deg(-20), Max: deg(120), Clamped: true},
					{Name: "abduction", Display: "Abduction/Adduction", Axis: qspace.AxisZ, Index: 1, Min: deg(-30), Max: deg(45), Clamped: true},
					{Name: "rotation", Display: "Internal/External Rotation", Axis: qspace.AxisY, Index: 2, Min: deg(-40), Max: deg(45), Clamped: true},
				},
			},
			{
				ID: JointHipR, Display: "Right Hip", Parent: SegPelvis, Child: SegThighR,
				Kind: KindBall, Order: qspace.OrderXZY, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion/Extension", Axis: qspace.AxisX, Index: 0, Min: deg(-20), Max: deg(120), Clamped: true},
					{Name: "abduction", Display: "Abduction/Adduction", Axis: qspace.AxisZ, Index: 1, Min: deg(-30), Max: deg(45), Clamped: true, Invert: true},
					{Name: "rotation", Display: "Internal/External Rotation", Axis: qspace.AxisY, Index: 2, Min: deg(-40), Max: deg(45), Clamped: true, Invert: true},
				},
			},
			{
				ID: JointKneeL, Display: "Left Knee", Parent: SegThighL, Child: SegShankL,
				Kind: KindHinge, Order: qspace.OrderXZY, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion", Axis: qspace.AxisX, Index: 0, Min: 0, Max: deg(150), Clamped: true},
				},
			},
			{
				ID: JointKneeR, Display: "Right Knee", Parent: SegThighR, Child: SegShankR,
				Kind: KindHinge, Order: qspace.OrderXZY, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "flexion", Display: "Flexion", Axis: qspace.AxisX, Index: 0, Min: 0, Max: deg(150), Clamped: true},
				},
			},
			{
				ID: JointAnkleL, Display: "Left Ankle", Parent: SegShankL, Child: SegFootL,
				Kind: KindUniversal, Order: qspace.OrderZXY, Side: SideLeft,
				Coordinates: []Coordinate{
					{Name: "dorsiflexion", Display: "Dorsi/Plantar Flexion", Axis: qspace.AxisX, Index: 1, Min: deg(-50), Max: deg(20), Clamped: true},
					{Name: "inversion", Display: "Inversion/Eversion", Axis: qspace.AxisZ, Index: 0, Min: deg(-15), Max: deg(35), Clamped: true},
				},
			},
			{
				ID: JointAnkleR, Display: "Right Ankle", Parent: SegShankR, Child: SegFootR,
				Kind: KindUniversal, Order: qspace.OrderZXY, Side: SideRight,
				Coordinates: []Coordinate{
					{Name: "dorsiflexion", Display: "Dorsi/Plantar Flexion", Axis: qspace.AxisX, Index: 1, Min: deg(-50), Max: deg(20), Clamped: true},
					{Name: "inversion", Display: "Inversion/Eversion", Axis: qspace.AxisZ, Index: 0, Min: deg(-15), Max: deg(35), Clamped: true, Invert: true},
				},
			},
		},
	}
	if err := m.Validate(); err != nil {
		// The table is compiled in; an invalid one is a build defect.
		panic(err)
	}
	return m
}

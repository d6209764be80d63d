// Package anatomy defines the static segment and joint model of the
// humanoid rig: which rigid segments exist, how each maps onto a host rig
// node (or a virtual frame), and how each joint decomposes into 1-3
// generalized coordinates.
//
// The model is immutable after construction. All axis-to-coordinate
// mapping lives here: consumers read decomposed coordinate values and
// never re-derive angles from raw orientations.
package anatomy

import (
	"fmt"

	"github.com/biomechlab/go-biomech/pkg/qspace"
	"gonum.org/v1/gonum/spatial/r3"
)

// SegmentID identifies an anatomical rigid segment.
type SegmentID uint8

const (
	SegPelvis SegmentID = iota
	SegTorso
	SegHead
	SegScapulaL
	SegScapulaR
	SegUpperArmL
	SegUpperArmR
	SegForearmL
	SegForearmR
	SegHandL
	SegHandR
	SegThighL
	SegThighR
	SegShankL
	SegShankR
	SegFootL
	SegFootR

	segmentCount
)

var segmentNames = [segmentCount]string{
	SegPelvis:    "pelvis",
	SegTorso:     "torso",
	SegHead:      "head",
	SegScapulaL:  "scapula_l",
	SegScapulaR:  "scapula_r",
	SegUpperArmL: "upper_arm_l",
	SegUpperArmR: "upper_arm_r",
	SegForearmL:  "forearm_l",
	SegForearmR:  "forearm_r",
	SegHandL:     "hand_l",
	SegHandR:     "hand_r",
	SegThighL:    "thigh_l",
	SegThighR:    "thigh_r",
	SegShankL:    "shank_l",
	SegShankR:    "shank_r",
	SegFootL:     "foot_l",
	SegFootR:     "foot_r",
}

func (id SegmentID) String() string {
	if id < segmentCount {
		return segmentNames[id]
	}
	return fmt.Sprintf("SegmentID(%d)", uint8(id))
}

// Valid reports whether the id names a known segment.
func (id SegmentID) Valid() bool { return id < segmentCount }

// JointID identifies a joint.
type JointID uint8

const (
	JointLumbar JointID = iota
	JointNeck
	JointScapulothoracicL
	JointScapulothoracicR
	JointGlenohumeralL
	JointGlenohumeralR
	JointElbowL
	JointElbowR
	JointWristL
	JointWristR
	JointHipL
	JointHipR
	JointKneeL
	JointKneeR
	JointAnkleL
	JointAnkleR

	jointCount
)

var jointNames = [jointCount]string{
	JointLumbar:           "lumbar",
	JointNeck:             "neck",
	JointScapulothoracicL: "scapulothoracic_l",
	JointScapulothoracicR: "scapulothoracic_r",
	JointGlenohumeralL:    "glenohumeral_l",
	JointGlenohumeralR:    "glenohumeral_r",
	JointElbowL:           "elbow_l",
	JointElbowR:           "elbow_r",
	JointWristL:           "wrist_l",
	JointWristR:           "wrist_r",
	JointHipL:             "hip_l",
	JointHipR:             "hip_r",
	JointKneeL:            "knee_l",
	JointKneeR:            "knee_r",
	JointAnkleL:           "ankle_l",
	JointAnkleR:           "ankle_r",
}

func (id JointID) String() string {
	if id < jointCount {
		return jointNames[id]
	}
	return fmt.Sprintf("JointID(%d)", uint8(id))
}

// Valid reports whether the id names a known joint.
func (id JointID) Valid() bool { return id < jointCount }

// Side tags joints that exist in left/right pairs.
type Side uint8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return ""
	}
}

// SourceKind says where a segment's orientation comes from.
type SourceKind uint8

const (
	// SourceRigNode segments track a named node of the host rig.
	SourceRigNode SourceKind = iota
	// SourceVirtual segments are computed frames, expressed relative to a
	// parent segment and settable at runtime.
	SourceVirtual
)

// Segment maps one anatomical rigid body onto the host rig.
type Segment struct {
	ID      SegmentID
	Display string
	Source  SourceKind

	// RigNode is the external node name for rig-bound segments.
	RigNode string

	// Virtual frame defaults, used when Source is SourceVirtual.
	VirtualParent   SegmentID
	VirtualOffset   r3.Vec
	VirtualRotation qspace.Orientation
}

// CoordinateID identifies one generalized coordinate, as
// "<joint>/<coordinate>", e.g. "knee_l/flexion".
type CoordinateID string

// Coordinate is one scalar rotational degree of freedom of a joint.
type Coordinate struct {
	Name    string
	Display string

	// Axis is the body-fixed rotation axis of the coordinate. Index is its
	// position within the owning joint's decomposition order. The two must
	// agree (Index == Order.IndexOf(Axis)); Validate enforces it, the
	// engine derives nothing from list position.
	Axis  qspace.Axis
	Index int

	// Neutral is the displayed value at zero deviation, radians.
	Neutral float64

	// Min and Max bound the displayed value, radians, Min <= Max.
	Min, Max float64

	// Clamped coordinates are clamped to [Min, Max] on read.
	Clamped bool
	// Locked coordinates ignore writes; their input value is discarded.
	Locked bool
	// Invert flips the displayed sign. Applied only at the coordinate-value
	// boundary, never inside the orientation math.
	Invert bool
}

// JointKind classifies joints for kind-specific logic.
type JointKind uint8

const (
	KindBall JointKind = iota
	KindHinge
	KindUniversal
	KindCustom3DOF
	KindFixed
)

func (k JointKind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindHinge:
		return "hinge"
	case KindUniversal:
		return "universal"
	case KindCustom3DOF:
		return "custom-3dof"
	case KindFixed:
		return "fixed"
	}
	return fmt.Sprintf("JointKind(%d)", uint8(k))
}

// Joint is a rotational relationship between a parent and child segment,
// decomposed into generalized coordinates under a body-fixed order.
type Joint struct {
	ID          JointID
	Display     string
	Parent      SegmentID
	Child       SegmentID
	Kind        JointKind
	Order       qspace.Order
	Coordinates []Coordinate
	Side        Side
}

// CoordinateID returns the id of the i-th declared coordinate.
func (j *Joint) CoordinateID(i int) CoordinateID {
	return CoordinateID(j.ID.String() + "/" + j.Coordinates[i].Name)
}

// CoordinateIndex returns the declaration position of the named
// coordinate, or -1.
func (j *Joint) CoordinateIndex(name string) int {
	for i := range j.Coordinates {
		if j.Coordinates[i].Name == name {
			return i
		}
	}
	return -1
}

// Model is the immutable segment/joint table, loaded once at start.
// Segments and Joints are indexed by their typed ids; Joints is also the
// deterministic declaration order used for update and violation reporting.
type Model struct {
	Segments []Segment
	Joints   []Joint
}

// Segment returns the segment record for id.
func (m *Model) Segment(id SegmentID) (*Segment, bool) {
	if int(id) >= len(m.Segments) {
		return nil, false
	}
	return &m.Segments[id], true
}

// Joint returns the joint record for id.
func (m *Model) Joint(id JointID) (*Joint, bool) {
	if int(id) >= len(m.Joints) {
		return nil, false
	}
	return &m.Joints[id], true
}

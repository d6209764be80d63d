package rig

import (
	"github.com/biomechlab/go-biomech/pkg/qspace"
	"gonum.org/v1/gonum/spatial/r3"
)

// demoBone is one node of the built-in demo skeleton.
type demoBone struct {
	name   string
	parent string
	offset r3.Vec
}

// Mixamo-style skeleton matching the node names the humanoid model binds
// to. Offsets are metres for a ~1.75 m figure; rest-pose orientations are
// identity so a freshly built rig is already in its calibration pose.
var demoBones = []demoBone{
	{"Hips", "", r3.Vec{Y: 0.95}},
	{"Spine2", "Hips", r3.Vec{Y: 0.35}},
	{"Head", "Spine2", r3.Vec{Y: 0.30}},
	{"LeftArm", "Spine2", r3.Vec{X: -0.18, Y: 0.22}},
	{"LeftForeArm", "LeftArm", r3.Vec{X: -0.28}},
	{"LeftHand", "LeftForeArm", r3.Vec{X: -0.26}},
	{"RightArm", "Spine2", r3.Vec{X: 0.18, Y: 0.22}},
	{"RightForeArm", "RightArm", r3.Vec{X: 0.28}},
	{"RightHand", "RightForeArm", r3.Vec{X: 0.26}},
	{"LeftUpLeg", "Hips", r3.Vec{X: -0.09}},
	{"LeftLeg", "LeftUpLeg", r3.Vec{Y: -0.42}},
	{"LeftFoot", "LeftLeg", r3.Vec{Y: -0.40}},
	{"RightUpLeg", "Hips", r3.Vec{X: 0.09}},
	{"RightLeg", "RightUpLeg", r3.Vec{Y: -0.42}},
	{"RightFoot", "RightLeg", r3.Vec{Y: -0.40}},
}

// DemoHumanoid builds the in-memory demo skeleton used by the viewer
// daemon and the tests.
func DemoHumanoid() *MemoryRig {
	r := NewMemoryRig()
	for _, b := range demoBones {
		if _, err := r.AddNode(b.name, b.parent, b.offset, qspace.Identity()); err != nil {
			panic(err) // static table, only reachable through a build defect
		}
	}
	return r
}

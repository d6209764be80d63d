// Package rig abstracts the host rigid-body rig the kinematics engine
// reads from and writes back to.
//
// The engine treats the rig purely as an oracle and mutator: a named-node
// lookup where each node exposes a queryable world orientation/position
// and a settable local orientation. It never owns node lifecycles. The
// interfaces are segregated so consumers depend only on what they use.
package rig

import (
	"github.com/biomechlab/go-biomech/pkg/qspace"
	"gonum.org/v1/gonum/spatial/r3"
)

// WorldReader exposes a node's pose in world space.
type WorldReader interface {
	WorldOrientation() qspace.Orientation
	WorldPosition() r3.Vec
}

// LocalWriter mutates a node's parent-relative transform. Writes take
// effect the next time world matrices are derived.
type LocalWriter interface {
	LocalOrientation() qspace.Orientation
	SetLocalOrientation(q qspace.Orientation)
	SetLocalPosition(p r3.Vec)
}

// Node is one named rig node.
type Node interface {
	WorldReader
	LocalWriter

	// Name is the external node name segments bind to.
	Name() string

	// Parent returns the parent node, or nil for the root.
	Parent() Node
}

// Rig is a named-node lookup. A missing node is an expected transient
// state during rig load, so lookups report absence instead of failing.
type Rig interface {
	Node(name string) (Node, bool)
}

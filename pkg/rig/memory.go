package rig

import (
	"fmt"

	"github.com/biomechlab/go-biomech/pkg/qspace"
	"gonum.org/v1/gonum/spatial/r3"
)

// MemoryRig is an in-process rig of parent-linked nodes. World transforms
// compose on demand by walking to the root, which is plenty for humanoid
// depths. It backs the demo commands and tests; a real host would adapt
// its own scene graph to the Rig interface instead.
type MemoryRig struct {
	nodes map[string]*MemoryNode
}

// NewMemoryRig returns an empty rig.
func NewMemoryRig() *MemoryRig {
	return &MemoryRig{nodes: make(map[string]*MemoryNode)}
}

// AddNode creates a node under the named parent ("" for a root) with the
// given rest-pose local transform.
func (r *MemoryRig) AddNode(name, parent string, pos r3.Vec, orient qspace.Orientation) (*MemoryNode, error) {
	if _, exists := r.nodes[name]; exists {
		return nil, fmt.Errorf("rig: node %q already exists", name)
	}
	var p *MemoryNode
	if parent != "" {
		var ok bool
		p, ok = r.nodes[parent]
		if !ok {
			return nil, fmt.Errorf("rig: parent node %q not found", parent)
		}
	}
	n := &MemoryNode{name: name, parent: p, localPos: pos, localOrient: orient}
	r.nodes[name] = n
	return n, nil
}

// Node implements Rig.
func (r *MemoryRig) Node(name string) (Node, bool) {
	n, ok := r.nodes[name]
	if !ok {
		return nil, false
	}
	return n, true
}

// MustNode is a test/demo helper; it panics when the node is absent.
func (r *MemoryRig) MustNode(name string) *MemoryNode {
	n, ok := r.nodes[name]
	if !ok {
		panic(fmt.Sprintf("rig: node %q not found", name))
	}
	return n
}

// MemoryNode is one node of a MemoryRig.
type MemoryNode struct {
	name        string
	parent      *MemoryNode
	localPos    r3.Vec
	localOrient qspace.Orientation
}

func (n *MemoryNode) Name() string { return n.name }

func (n *MemoryNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *MemoryNode) LocalOrientation() qspace.Orientation { return n.localOrient }

func (n *MemoryNode) SetLocalOrientation(q qspace.Orientation) { n.localOrient = q }

func (n *MemoryNode) SetLocalPosition(p r3.Vec) { n.localPos = p }

// WorldOrientation composes parent world orientation with the local one.
func (n *MemoryNode) WorldOrientation() qspace.Orientation {
	if n.parent == nil {
		return n.localOrient
	}
	return n.parent.WorldOrientation().Mul(n.localOrient)
}

// WorldPosition composes the local offset through the parent chain.
func (n *MemoryNode) WorldPosition() r3.Vec {
	if n.parent == nil {
		return n.localPos
	}
	return r3.Add(n.parent.WorldPosition(), n.parent.WorldOrientation().Rotate(n.localPos))
}

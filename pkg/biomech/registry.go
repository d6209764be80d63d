package biomech

import (
	"fmt"

	"github.com/biomechlab/go-biomech/pkg/anatomy"
	"github.com/biomechlab/go-biomech/pkg/qspace"
	"github.com/biomechlab/go-biomech/pkg/rig"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is a parent-relative pose for a virtual segment.
type Frame struct {
	Position r3.Vec
	Rotation qspace.Orientation
}

// Resolution is the outcome of resolving a segment: where its pose comes
// from.
type Resolution struct {
	Kind anatomy.SourceKind

	// Node is set for rig-bound segments.
	Node rig.Node

	// Parent and Frame are set for virtual segments.
	Parent anatomy.SegmentID
	Frame  Frame
}

// Registry resolves segment ids to world-space poses. It is built per
// loaded rig instance and rebuilt whenever the rig changes. Reads have no
// side effects; SetVirtualFrame is the only mutator and is idempotent
// (last write wins).
type Registry struct {
	model   *anatomy.Model
	rig     rig.Rig
	virtual map[anatomy.SegmentID]Frame
}

// NewRegistry builds a registry over a rig, seeding every virtual segment
// with its model-default frame so virtual segments resolve immediately.
func NewRegistry(model *anatomy.Model, r rig.Rig) *Registry {
	g := &Registry{
		model:   model,
		rig:     r,
		virtual: make(map[anatomy.SegmentID]Frame),
	}
	for i := range model.Segments {
		s := &model.Segments[i]
		if s.Source == anatomy.SourceVirtual {
			g.virtual[s.ID] = Frame{Position: s.VirtualOffset, Rotation: s.VirtualRotation}
		}
	}
	return g
}

// Resolve maps a segment id to its orientation source. A missing rig node
// or unset virtual frame is an expected transient state, reported as an
// error the caller degrades on rather than crashes on.
func (g *Registry) Resolve(id anatomy.SegmentID) (Resolution, error) {
	seg, ok := g.model.Segment(id)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %d", ErrUnknownSegment, id)
	}
	switch seg.Source {
	case anatomy.SourceVirtual:
		f, ok := g.virtual[id]
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %v", ErrVirtualFrameUnset, id)
		}
		return Resolution{Kind: anatomy.SourceVirtual, Parent: seg.VirtualParent, Frame: f}, nil
	default:
		if g.rig == nil {
			return Resolution{}, fmt.Errorf("%w: %v (no rig)", ErrSegmentUnresolved, id)
		}
		n, ok := g.rig.Node(seg.RigNode)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %v (node %q)", ErrSegmentUnresolved, id, seg.RigNode)
		}
		return Resolution{Kind: anatomy.SourceRigNode, Node: n}, nil
	}
}

// WorldOrientation returns the segment's world orientation, or false when
// the segment is unresolved.
func (g *Registry) WorldOrientation(id anatomy.SegmentID) (qspace.Orientation, bool) {
	res, err := g.Resolve(id)
	if err != nil {
		return qspace.Orientation{}, false
	}
	if res.Kind == anatomy.SourceRigNode {
		return res.Node.WorldOrientation(), true
	}
	parent, ok := g.WorldOrientation(res.Parent)
	if !ok {
		return qspace.Orientation{}, false
	}
	return parent.Mul(res.Frame.Rotation), true
}

// WorldPosition returns the segment's world position, or false when the
// segment is unresolved.
func (g *Registry) WorldPosition(id anatomy.SegmentID) (r3.Vec, bool) {
	res, err := g.Resolve(id)
	if err != nil {
		return r3.Vec{}, false
	}
	if res.Kind == anatomy.SourceRigNode {
		return res.Node.WorldPosition(), true
	}
	parentPos, ok := g.WorldPosition(res.Parent)
	if !ok {
		return r3.Vec{}, false
	}
	parentOri, ok := g.WorldOrientation(res.Parent)
	if !ok {
		return r3.Vec{}, false
	}
	return r3.Add(parentPos, parentOri.Rotate(res.Frame.Position)), true
}

// SetVirtualFrame registers (or replaces) the frame of a virtual segment.
func (g *Registry) SetVirtualFrame(id anatomy.SegmentID, f Frame) error {
	seg, ok := g.model.Segment(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSegment, id)
	}
	if seg.Source != anatomy.SourceVirtual {
		return fmt.Errorf("%w: %v", ErrNotVirtual, id)
	}
	g.virtual[id] = f
	return nil
}

// VirtualFrame returns the registered frame of a virtual segment.
func (g *Registry) VirtualFrame(id anatomy.SegmentID) (Frame, bool) {
	f, ok := g.virtual[id]
	return f, ok
}

// setWorldOrientation drives a segment to a target world orientation. For
// rig-bound segments it rewrites the node's local orientation against the
// node's current rig parent; for virtual segments it rewrites the
// registered frame against the parent segment. This is the engine's only
// write path onto the rig.
func (g *Registry) setWorldOrientation(id anatomy.SegmentID, world qspace.Orientation) error {
	res, err := g.Resolve(id)
	if err != nil {
		return err
	}
	if res.Kind == anatomy.SourceRigNode {
		local := world
		if p := res.Node.Parent(); p != nil {
			local = p.WorldOrientation().Inv().Mul(world)
		}
		res.Node.SetLocalOrientation(local)
		return nil
	}
	parent, ok := g.WorldOrientation(res.Parent)
	if !ok {
		return fmt.Errorf("%w: %v", ErrSegmentUnresolved, res.Parent)
	}
	f := res.Frame
	f.Rotation = parent.Inv().Mul(world)
	g.virtual[id] = f
	return nil
}

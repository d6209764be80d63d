package anatomy

import (
	"errors"
	"fmt"
)

// Sentinel errors for model validation.
var (
	ErrSegmentTable = errors.New("anatomy: segment table inconsistent")
	ErrJointTable   = errors.New("anatomy: joint table inconsistent")
)

// Validate checks the model invariants:
//   - segment and joint tables are indexed by their own ids
//   - every joint links two distinct, existing segments
//   - rig-bound segments carry a node name; virtual segments a valid parent
//   - coordinate indices within a joint are distinct members of {0,1,2}
//     (a full permutation for 3-DOF joints)
//   - each coordinate's Index equals the position of its Axis within the
//     joint's decomposition order
//   - Min <= Max for every coordinate
func (m *Model) Validate() error {
	if len(m.Segments) != int(segmentCount) {
		return fmt.Errorf("%w: %d segments, want %d", ErrSegmentTable, len(m.Segments), segmentCount)
	}
	for i := range m.Segments {
		s := &m.Segments[i]
		if s.ID != SegmentID(i) {
			return fmt.Errorf("%w: slot %d holds %v", ErrSegmentTable, i, s.ID)
		}
		switch s.Source {
		case SourceRigNode:
			if s.RigNode == "" {
				return fmt.Errorf("%w: %v has no rig node name", ErrSegmentTable, s.ID)
			}
		case SourceVirtual:
			if !s.VirtualParent.Valid() || s.VirtualParent == s.ID {
				return fmt.Errorf("%w: %v has invalid virtual parent %v", ErrSegmentTable, s.ID, s.VirtualParent)
			}
		}
	}

	if len(m.Joints) != int(jointCount) {
		return fmt.Errorf("%w: %d joints, want %d", ErrJointTable, len(m.Joints), jointCount)
	}
	for i := range m.Joints {
		j := &m.Joints[i]
		if j.ID != JointID(i) {
			return fmt.Errorf("%w: slot %d holds %v", ErrJointTable, i, j.ID)
		}
		if err := validateJoint(j); err != nil {
			return err
		}
	}
	return nil
}

func validateJoint(j *Joint) error {
	if !j.Parent.Valid() || !j.Child.Valid() {
		return fmt.Errorf("%w: %v links unknown segment", ErrJointTable, j.ID)
	}
	if j.Parent == j.Child {
		return fmt.Errorf("%w: %v links %v to itself", ErrJointTable, j.ID, j.Parent)
	}
	if len(j.Coordinates) > 3 {
		return fmt.Errorf("%w: %v has %d coordinates", ErrJointTable, j.ID, len(j.Coordinates))
	}
	if j.Kind == KindFixed && len(j.Coordinates) != 0 {
		return fmt.Errorf("%w: fixed joint %v has coordinates", ErrJointTable, j.ID)
	}
	if j.Kind == KindHinge && len(j.Coordinates) != 1 {
		return fmt.Errorf("%w: hinge joint %v has %d coordinates", ErrJointTable, j.ID, len(j.Coordinates))
	}

	var seen [3]bool
	for i := range j.Coordinates {
		c := &j.Coordinates[i]
		if c.Index < 0 || c.Index > 2 {
			return fmt.Errorf("%w: %v/%s index %d out of range", ErrJointTable, j.ID, c.Name, c.Index)
		}
		if seen[c.Index] {
			return fmt.Errorf("%w: %v reuses index %d", ErrJointTable, j.ID, c.Index)
		}
		seen[c.Index] = true
		if want := j.Order.IndexOf(c.Axis); c.Index != want {
			return fmt.Errorf("%w: %v/%s axis %v sits at index %d of order %v, declared %d",
				ErrJointTable, j.ID, c.Name, c.Axis, want, j.Order, c.Index)
		}
		if c.Min > c.Max {
			return fmt.Errorf("%w: %v/%s range [%v,%v] inverted", ErrJointTable, j.ID, c.Name, c.Min, c.Max)
		}
	}
	return nil
}

package anchor

import (
	"fmt"

	"github.com/chazu/anchorscad/pkg/frame"
)

// Node3D is anything that owns a frame and a set of anchors.
type Node3D interface {
	Name() string
	RefSys() *frame.Matrix3D
	Anchors() Set3D
}

// Node2D is the planar counterpart of Node3D.
type Node2D interface {
	Name() string
	RefSys() *frame.Matrix2D
	Anchors() Set2D
}

// SnapError reports a failed snap together with the node/anchor pair that
// caused it.
type SnapError struct {
	Child        string
	ChildAnchor  string
	Parent       string
	ParentAnchor string
	Err          error
}

func (e *SnapError) Error() string {
	return fmt.Sprintf("snap %s.%s to %s.%s: %v",
		nodeLabel(e.Child), e.ChildAnchor, nodeLabel(e.Parent), e.ParentAnchor, e.Err)
}

func (e *SnapError) Unwrap() error { return e.Err }

func nodeLabel(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

type chainable[M any] interface {
	Then(M) M
	Inverse() (M, error)
}

// snapFrame returns childAnchor⁻¹ then parentAnchor then parentFrame: the
// child frame that puts childAnchor on top of the parent anchor.
func snapFrame[M chainable[M]](childAnchor, parentAnchor, parentFrame M) (M, error) {
	inv, err := childAnchor.Inverse()
	if err != nil {
		var zero M
		return zero, fmt.Errorf("%w: %w", ErrDegenerate, err)
	}
	return inv.Then(parentAnchor).Then(parentFrame), nil
}

// ---------------------------------------------------------------------------
// 3D handles
// ---------------------------------------------------------------------------

// Handle3D names one anchor of one node.
type Handle3D struct {
	Node   Node3D
	Anchor string
}

// At3D returns the handle for anchor name on node.
func At3D(node Node3D, name string) Handle3D {
	return Handle3D{Node: node, Anchor: name}
}

// Get resolves the handle to its anchor.
func (h Handle3D) Get() (*Anchor3D, error) {
	return h.Node.Anchors().Get(h.Anchor)
}

// World returns the anchor frame in the space the node is placed in.
func (h Handle3D) World() (frame.Matrix3D, error) {
	a, err := h.Get()
	if err != nil {
		return frame.Matrix3D{}, err
	}
	return a.ref.Then(*h.Node.RefSys()), nil
}

// Position returns the world-space origin of the anchor.
func (h Handle3D) Position() (frame.Vector3D, error) {
	w, err := h.World()
	if err != nil {
		return frame.Vector3D{}, err
	}
	return w.Apply(frame.Point3D(0, 0, 0)), nil
}

// SnapTo moves h's node so that its anchor coincides with the parent anchor.
// Only the child's frame is written; the result does not depend on the
// child's previous frame.
func (h Handle3D) SnapTo(parent Handle3D) error {
	fail := func(err error) error {
		return &SnapError{
			Child:        h.Node.Name(),
			ChildAnchor:  h.Anchor,
			Parent:       parent.Node.Name(),
			ParentAnchor: parent.Anchor,
			Err:          err,
		}
	}
	ca, err := h.Get()
	if err != nil {
		return fail(err)
	}
	pa, err := parent.Get()
	if err != nil {
		return fail(err)
	}
	ref, err := snapFrame(ca.ref, pa.ref, *parent.Node.RefSys())
	if err != nil {
		return fail(err)
	}
	*h.Node.RefSys() = ref
	return nil
}

// Snap3D is the free-function form of Handle3D.SnapTo.
func Snap3D(child Node3D, childAnchor string, parent Node3D, parentAnchor string) error {
	return At3D(child, childAnchor).SnapTo(At3D(parent, parentAnchor))
}

// ---------------------------------------------------------------------------
// 2D handles
// ---------------------------------------------------------------------------

// Handle2D names one anchor of one planar node.
type Handle2D struct {
	Node   Node2D
	Anchor string
}

func At2D(node Node2D, name string) Handle2D {
	return Handle2D{Node: node, Anchor: name}
}

func (h Handle2D) Get() (*Anchor2D, error) {
	return h.Node.Anchors().Get(h.Anchor)
}

func (h Handle2D) World() (frame.Matrix2D, error) {
	a, err := h.Get()
	if err != nil {
		return frame.Matrix2D{}, err
	}
	return a.ref.Then(*h.Node.RefSys()), nil
}

func (h Handle2D) Position() (frame.Vector2D, error) {
	w, err := h.World()
	if err != nil {
		return frame.Vector2D{}, err
	}
	return w.Apply(frame.Point2D(0, 0)), nil
}

func (h Handle2D) SnapTo(parent Handle2D) error {
	fail := func(err error) error {
		return &SnapError{
			Child:        h.Node.Name(),
			ChildAnchor:  h.Anchor,
			Parent:       parent.Node.Name(),
			ParentAnchor: parent.Anchor,
			Err:          err,
		}
	}
	ca, err := h.Get()
	if err != nil {
		return fail(err)
	}
	pa, err := parent.Get()
	if err != nil {
		return fail(err)
	}
	ref, err := snapFrame(ca.ref, pa.ref, *parent.Node.RefSys())
	if err != nil {
		return fail(err)
	}
	*h.Node.RefSys() = ref
	return nil
}

func Snap2D(child Node2D, childAnchor string, parent Node2D, parentAnchor string) error {
	return At2D(child, childAnchor).SnapTo(At2D(parent, parentAnchor))
}

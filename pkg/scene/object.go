package scene

import (
	"github.com/chazu/anchorscad/pkg/anchor"
	"github.com/chazu/anchorscad/pkg/frame"
)

// Object is a solid node of the CSG tree.
type Object struct {
	Shape    Shape
	Colour   Colour
	Modifier Modifier
	Marker   Marker

	name    string
	ref     frame.Matrix3D
	anchors anchor.Set3D
}

var (
	_ anchor.Node3D  = (*Object)(nil)
	_ frame.Framed3D = (*Object)(nil)
)

// NewObject returns an object at the identity frame with no anchors.
func NewObject(name string, s Shape) *Object {
	return &Object{
		Shape:   s,
		name:    name,
		ref:     frame.Identity3D(),
		anchors: anchor.Set3D{},
	}
}

func (o *Object) Name() string               { return o.name }
func (o *Object) SetName(name string)        { o.name = name }
func (o *Object) RefSys() *frame.Matrix3D    { return &o.ref }
func (o *Object) SetRefSys(m frame.Matrix3D) { o.ref = m }
func (o *Object) Anchors() anchor.Set3D      { return o.anchors }

// CreateAnchor adds an identity anchor, replacing any with the same name.
func (o *Object) CreateAnchor(name string) *anchor.Anchor3D {
	return o.anchors.Create(name)
}

// Anchor returns the handle used to snap o by one of its anchors. The name is
// resolved when the handle is used.
func (o *Object) Anchor(name string) anchor.Handle3D {
	return anchor.At3D(o, name)
}

// SetColour colours o and every descendant solid.
func (o *Object) SetColour(c Colour) {
	o.Colour = c
	if comp, ok := o.Shape.(Composite); ok {
		for _, child := range comp.Children {
			child.SetColour(c)
		}
	}
}

func (o *Object) SetModifier(m Modifier) { o.Modifier = m }
func (o *Object) ShowOrigin()            { o.Marker = MarkOrigin }
func (o *Object) ShowAnchors()           { o.Marker = MarkAnchors }

// SetFn sets $fn on every curved shape below o.
func (o *Object) SetFn(n int) { o.setRes(func(r *Resolution) { r.Fn = n }) }

// SetFa sets $fa on every curved shape below o.
func (o *Object) SetFa(a float64) { o.setRes(func(r *Resolution) { r.Fa = a }) }

// SetFs sets $fs on every curved shape below o.
func (o *Object) SetFs(s float64) { o.setRes(func(r *Resolution) { r.Fs = s }) }

func (o *Object) setRes(set func(*Resolution)) {
	switch s := o.Shape.(type) {
	case Sphere:
		set(&s.Res)
		o.Shape = s
	case Cylinder:
		set(&s.Res)
		o.Shape = s
	case Extrusion:
		set(&s.Res)
		if s.Profile != nil {
			s.Profile.setRes(set)
		}
		o.Shape = s
	case Composite:
		for _, c := range s.Children {
			c.setRes(set)
		}
	}
}

// Walk visits o and its descendant solids depth-first, parents before
// children. Returning a non-nil error from fn stops the walk.
func Walk(o *Object, fn func(*Object) error) error {
	if err := fn(o); err != nil {
		return err
	}
	if comp, ok := o.Shape.(Composite); ok {
		for _, c := range comp.Children {
			if err := Walk(c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Solid constructors
// ---------------------------------------------------------------------------

// NewCube returns a box of the given size centred on the origin.
func NewCube(name string, x, y, z float64) *Object {
	return NewObject(name, Cube{X: x, Y: y, Z: z})
}

// NewCubeCoords returns the box spanning the two opposite corners.
func NewCubeCoords(name string, x1, y1, z1, x2, y2, z2 float64) *Object {
	x, y, z := abs(x1-x2), abs(y1-y2), abs(z1-z2)
	o := NewCube(name, x, y, z)
	o.ref.Translate(min(x1, x2)+x/2, min(y1, y2)+y/2, min(z1, z2)+z/2)
	return o
}

func NewSphere(name string, r float64) *Object {
	return NewObject(name, Sphere{R: r})
}

// NewCylinder returns a cylinder (a cone when r1 != r2) standing on z = 0.
func NewCylinder(name string, h, r1, r2 float64) *Object {
	return NewObject(name, Cylinder{H: h, R1: r1, R2: r2})
}

// LinearExtrude sweeps profile to the given height. The profile's anchors are
// lifted into the extrusion; the profile itself is kept as the child.
func LinearExtrude(name string, profile *Object2D, height float64) *Object {
	o := NewObject(name, Extrusion{
		Height:    height,
		Convexity: 10,
		Profile:   profile,
	})
	o.anchors = profile.anchors.Lift(profile.ref.To3D())
	return o
}

func Union(name string, children ...*Object) *Object {
	return newComposite(name, OpUnion, children)
}

// Difference subtracts every child after the first from the first.
func Difference(name string, children ...*Object) *Object {
	return newComposite(name, OpDifference, children)
}

func Intersection(name string, children ...*Object) *Object {
	return newComposite(name, OpIntersection, children)
}

func Hull(name string, children ...*Object) *Object {
	return newComposite(name, OpHull, children)
}

func Minkowski(name string, children ...*Object) *Object {
	return newComposite(name, OpMinkowski, children)
}

// newComposite copies each child's anchors into the composite as
// child::anchor, placed through the child's frame.
func newComposite(name string, op BooleanOp, children []*Object) *Object {
	o := NewObject(name, Composite{Op: op, Children: children})
	for _, c := range children {
		c.anchors.MergeInto(o.anchors, c.name, c.ref)
	}
	return o
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ---------------------------------------------------------------------------
// Planar objects
// ---------------------------------------------------------------------------

// Object2D is a planar node, used on its own or as an extrusion profile.
type Object2D struct {
	Shape    Shape2D
	Colour   Colour
	Modifier Modifier

	name    string
	ref     frame.Matrix2D
	anchors anchor.Set2D
}

var (
	_ anchor.Node2D  = (*Object2D)(nil)
	_ frame.Framed2D = (*Object2D)(nil)
)

func NewObject2D(name string, s Shape2D) *Object2D {
	return &Object2D{
		Shape:   s,
		name:    name,
		ref:     frame.Identity2D(),
		anchors: anchor.Set2D{},
	}
}

func (o *Object2D) Name() string               { return o.name }
func (o *Object2D) RefSys() *frame.Matrix2D    { return &o.ref }
func (o *Object2D) SetRefSys(m frame.Matrix2D) { o.ref = m }
func (o *Object2D) Anchors() anchor.Set2D      { return o.anchors }

func (o *Object2D) CreateAnchor(name string) *anchor.Anchor2D {
	return o.anchors.Create(name)
}

func (o *Object2D) Anchor(name string) anchor.Handle2D {
	return anchor.At2D(o, name)
}

func (o *Object2D) SetColour(c Colour) {
	o.Colour = c
	if comp, ok := o.Shape.(Composite2D); ok {
		for _, child := range comp.Children {
			child.SetColour(c)
		}
	}
}

func (o *Object2D) SetFn(n int) { o.setRes(func(r *Resolution) { r.Fn = n }) }

func (o *Object2D) setRes(set func(*Resolution)) {
	switch s := o.Shape.(type) {
	case Circle:
		set(&s.Res)
		o.Shape = s
	case Polygon:
		set(&s.Res)
		o.Shape = s
	case Composite2D:
		for _, c := range s.Children {
			c.setRes(set)
		}
	}
}

func NewSquare(name string, x, y float64) *Object2D {
	return NewObject2D(name, Square{X: x, Y: y})
}

// NewSquareCoords returns the rectangle spanning the two opposite corners.
func NewSquareCoords(name string, x1, y1, x2, y2 float64) *Object2D {
	x, y := abs(x1-x2), abs(y1-y2)
	o := NewSquare(name, x, y)
	o.ref.Translate(min(x1, x2)+x/2, min(y1, y2)+y/2)
	return o
}

func NewCircle(name string, r float64) *Object2D {
	return NewObject2D(name, Circle{R: r})
}

// NewPolygon returns a single-outline polygon through points.
func NewPolygon(name string, points []frame.Vector2D) *Object2D {
	return NewObject2D(name, Polygon{Points: points, Convexity: 10})
}

func NewText(name, text, font string, size int, spacing float64) *Object2D {
	return NewObject2D(name, Text{Text: text, Font: font, Size: size, Spacing: spacing})
}

func Union2D(name string, children ...*Object2D) *Object2D {
	return newComposite2D(name, OpUnion, children)
}

func Difference2D(name string, children ...*Object2D) *Object2D {
	return newComposite2D(name, OpDifference, children)
}

func Intersection2D(name string, children ...*Object2D) *Object2D {
	return newComposite2D(name, OpIntersection, children)
}

func Hull2D(name string, children ...*Object2D) *Object2D {
	return newComposite2D(name, OpHull, children)
}

func Minkowski2D(name string, children ...*Object2D) *Object2D {
	return newComposite2D(name, OpMinkowski, children)
}

func newComposite2D(name string, op BooleanOp, children []*Object2D) *Object2D {
	o := NewObject2D(name, Composite2D{Op: op, Children: children})
	for _, c := range children {
		c.anchors.MergeInto(o.anchors, c.name, c.ref)
	}
	return o
}

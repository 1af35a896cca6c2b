package anchor

import (
	"errors"
	"fmt"

	"github.com/chazu/anchorscad/pkg/frame"
)

var (
	// ErrNotFound is returned when a node has no anchor with the requested name.
	ErrNotFound = errors.New("anchor not found")

	// ErrDegenerate is returned when an anchor frame cannot be inverted.
	ErrDegenerate = errors.New("degenerate anchor frame")
)

// Constraint flags which axes of one transform category an anchor pins.
// Snapping currently overrides every axis and never reads these flags; they
// are carried so scripts and serialized scenes keep them.
type Constraint struct {
	X, Y, Z  bool
	Relative bool
}

// And returns the axis-wise conjunction of c and o.
func (c Constraint) And(o Constraint) Constraint {
	return Constraint{c.X && o.X, c.Y && o.Y, c.Z && o.Z, c.Relative && o.Relative}
}

// Or returns the axis-wise disjunction of c and o.
func (c Constraint) Or(o Constraint) Constraint {
	return Constraint{c.X || o.X, c.Y || o.Y, c.Z || o.Z, c.Relative || o.Relative}
}

// Any reports whether at least one axis is pinned.
func (c Constraint) Any() bool { return c.X || c.Y || c.Z }

// Anchor3D is a named frame attached to a solid.
type Anchor3D struct {
	Name        string
	Rotation    Constraint
	Translation Constraint
	Scale       Constraint
	Shear       Constraint

	ref frame.Matrix3D
}

var _ frame.Framed3D = (*Anchor3D)(nil)

// New3D returns an anchor at the owning node's origin.
func New3D(name string) *Anchor3D {
	return &Anchor3D{Name: name, ref: frame.Identity3D()}
}

// RefSys returns the anchor frame for in-place building.
func (a *Anchor3D) RefSys() *frame.Matrix3D { return &a.ref }

// SetRefSys replaces the anchor frame.
func (a *Anchor3D) SetRefSys(m frame.Matrix3D) { a.ref = m }

// Clone returns an independent copy of a.
func (a *Anchor3D) Clone() *Anchor3D {
	c := *a
	return &c
}

func (a *Anchor3D) String() string {
	return fmt.Sprintf("anchor %q\n%s", a.Name, a.ref.Indent(1))
}

// Anchor2D is a named frame attached to a planar profile.
type Anchor2D struct {
	Name        string
	Rotation    Constraint
	Translation Constraint
	Scale       Constraint
	Shear       Constraint

	ref frame.Matrix2D
}

var _ frame.Framed2D = (*Anchor2D)(nil)

// New2D returns an anchor at the owning profile's origin.
func New2D(name string) *Anchor2D {
	return &Anchor2D{Name: name, ref: frame.Identity2D()}
}

func (a *Anchor2D) RefSys() *frame.Matrix2D    { return &a.ref }
func (a *Anchor2D) SetRefSys(m frame.Matrix2D) { a.ref = m }

// Clone returns an independent copy of a.
func (a *Anchor2D) Clone() *Anchor2D {
	c := *a
	return &c
}

// Lift returns the 3D anchor with the same name, constraints and the frame
// lifted by Matrix2D.To3D.
func (a *Anchor2D) Lift() *Anchor3D {
	return &Anchor3D{
		Name:        a.Name,
		Rotation:    a.Rotation,
		Translation: a.Translation,
		Scale:       a.Scale,
		Shear:       a.Shear,
		ref:         a.ref.To3D(),
	}
}

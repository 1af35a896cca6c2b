// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid modeling and boolean operations behind
// this interface so the tessellator never touches a backend directly.
package kernel

import (
	"errors"

	"github.com/chazu/anchorscad/pkg/frame"
)

// ErrUnsupported is returned for operations a backend cannot express, such
// as hulls, Minkowski sums or text on an SDF kernel.
var ErrUnsupported = errors.New("operation not supported by kernel")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Profile is an opaque handle to a planar region that can be extruded.
type Profile interface {
	BoundingBox() (min, max [2]float64)
}

// Extrusion holds the linear_extrude parameters a kernel needs.
type Extrusion struct {
	Height float64
	Center bool
	Twist  float64    // degrees, clockwise looking down z like OpenSCAD
	Scale  [2]float64 // top scale; zero components mean 1
}

// Kernel is the abstract geometry kernel interface.
//
// Primitives are built in their own local frame: boxes, spheres and
// rectangles centred on the origin, cylinders standing on z = 0. Callers
// place them with Transform.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Sphere(r float64) (Solid, error)
	Cylinder(height, r1, r2 float64) (Solid, error)

	// Profiles
	Rect(x, y float64) (Profile, error)
	Circle(r float64) (Profile, error)
	Polygon(points []frame.Vector2D) (Profile, error)
	Extrude(p Profile, e Extrusion) (Solid, error)

	// Boolean operations. Difference subtracts every b from a.
	Union(s ...Solid) (Solid, error)
	Difference(a Solid, b ...Solid) (Solid, error)
	Intersection(s ...Solid) (Solid, error)
	Union2D(p ...Profile) (Profile, error)
	Difference2D(a Profile, b ...Profile) (Profile, error)
	Intersection2D(p ...Profile) (Profile, error)

	// Transforms
	Transform(s Solid, m frame.Matrix3D) (Solid, error)
	Transform2D(p Profile, m frame.Matrix2D) (Profile, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

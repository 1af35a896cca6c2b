package scene

import "github.com/chazu/anchorscad/pkg/frame"

// ---------------------------------------------------------------------------
// Tessellation hints
// ---------------------------------------------------------------------------

// Resolution carries the $fn/$fa/$fs hints for curved shapes. Zero means
// "inherit the renderer's default".
type Resolution struct {
	Fn int
	Fa float64
	Fs float64
}

// ---------------------------------------------------------------------------
// Boolean operators
// ---------------------------------------------------------------------------

// BooleanOp selects how a composite combines its children.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
	OpHull
	OpMinkowski
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	case OpHull:
		return "hull"
	case OpMinkowski:
		return "minkowski"
	default:
		return "unknown"
	}
}

// ---------------------------------------------------------------------------
// Solid shapes
// ---------------------------------------------------------------------------

// Shape is the payload of an Object.
type Shape interface {
	shape() // marker method restricting implementations to this package
}

// Cube is a box centred on the origin.
type Cube struct {
	X, Y, Z float64
}

func (Cube) shape() {}

// Sphere is centred on the origin.
type Sphere struct {
	R   float64
	Res Resolution
}

func (Sphere) shape() {}

// Cylinder stands on z = 0 with radius R1 at the base and R2 at height H.
type Cylinder struct {
	H, R1, R2 float64
	Res       Resolution
}

func (Cylinder) shape() {}

// Extrusion sweeps a planar profile along z.
type Extrusion struct {
	Height    float64
	Center    bool
	Convexity int
	Twist     float64 // degrees over the full height
	Slices    int
	Scale     []float64 // empty, one uniform factor, or per-axis
	Res       Resolution
	Profile   *Object2D
}

func (Extrusion) shape() {}

// Composite combines child solids with a boolean operator.
type Composite struct {
	Op       BooleanOp
	Children []*Object
}

func (Composite) shape() {}

// ---------------------------------------------------------------------------
// Planar shapes
// ---------------------------------------------------------------------------

// Shape2D is the payload of an Object2D.
type Shape2D interface {
	shape2D()
}

// Square is a rectangle centred on the origin.
type Square struct {
	X, Y float64
}

func (Square) shape2D() {}

type Circle struct {
	R   float64
	Res Resolution
}

func (Circle) shape2D() {}

// Polygon is a list of points plus optional index paths. With no paths the
// points are taken in order as a single outline.
type Polygon struct {
	Points    []frame.Vector2D
	Paths     [][]int
	Convexity int
	Res       Resolution
}

func (Polygon) shape2D() {}

type Text struct {
	Text    string
	Font    string
	Size    int
	Spacing float64
}

func (Text) shape2D() {}

// Composite2D combines child profiles with a boolean operator.
type Composite2D struct {
	Op       BooleanOp
	Children []*Object2D
}

func (Composite2D) shape2D() {}

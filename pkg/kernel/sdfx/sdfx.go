// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/anchorscad/pkg/frame"
	"github.com/chazu/anchorscad/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

var errNoOperands = errors.New("boolean operation needs at least one operand")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

func (p *sdfxProfile) BoundingBox() (min, max [2]float64) {
	bb := p.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	// MeshCells is the marching cubes resolution along the longest axis.
	MeshCells int
}

// New returns a new SdfxKernel with the default mesh resolution.
func New() *SdfxKernel {
	return &SdfxKernel{MeshCells: DefaultMeshCells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func unwrap2(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfxProfile).s
}

func wrap2(s sdf.SDF2) kernel.Profile {
	return &sdfxProfile{s: s}
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Box creates a box with the given dimensions centred on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx box: %w", err)
	}
	return wrap(s), nil
}

// Sphere creates a sphere centred on the origin.
func (k *SdfxKernel) Sphere(r float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(r)
	if err != nil {
		return nil, fmt.Errorf("sdfx sphere: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a cylinder or truncated cone with radius r1 at z = 0 and
// r2 at z = height. sdfx centres both on the origin, so the result is
// shifted up by half the height.
func (k *SdfxKernel) Cylinder(height, r1, r2 float64) (kernel.Solid, error) {
	var (
		s   sdf.SDF3
		err error
	)
	if r1 == r2 {
		s, err = sdf.Cylinder3D(height, r1, 0)
	} else {
		s, err = sdf.Cone3D(height, r1, r2, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("sdfx cylinder: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

// Rect creates a rectangle centred on the origin.
func (k *SdfxKernel) Rect(x, y float64) (kernel.Profile, error) {
	if x <= 0 || y <= 0 {
		return nil, fmt.Errorf("sdfx rect: size %gx%g must be positive", x, y)
	}
	return wrap2(sdf.Box2D(v2.Vec{X: x, Y: y}, 0)), nil
}

func (k *SdfxKernel) Circle(r float64) (kernel.Profile, error) {
	s, err := sdf.Circle2D(r)
	if err != nil {
		return nil, fmt.Errorf("sdfx circle: %w", err)
	}
	return wrap2(s), nil
}

// Polygon creates a closed outline through points taken in order.
func (k *SdfxKernel) Polygon(points []frame.Vector2D) (kernel.Profile, error) {
	vs := make([]v2.Vec, len(points))
	for i, p := range points {
		vs[i] = v2.Vec{X: p.X(), Y: p.Y()}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx polygon: %w", err)
	}
	return wrap2(s), nil
}

// Extrude sweeps p along z. Without Center the result sits on z = 0.
func (k *SdfxKernel) Extrude(p kernel.Profile, e kernel.Extrusion) (kernel.Solid, error) {
	if e.Height <= 0 {
		return nil, fmt.Errorf("sdfx extrude: height %g must be positive", e.Height)
	}
	profile := unwrap2(p)
	scale := v2.Vec{X: 1, Y: 1}
	if e.Scale[0] != 0 {
		scale.X = e.Scale[0]
	}
	if e.Scale[1] != 0 {
		scale.Y = e.Scale[1]
	}
	twist := -e.Twist * math.Pi / 180.0
	scaled := scale.X != 1 || scale.Y != 1

	var s sdf.SDF3
	switch {
	case twist != 0 && scaled:
		s = sdf.ScaleTwistExtrude3D(profile, e.Height, twist, scale)
	case twist != 0:
		s = sdf.TwistExtrude3D(profile, e.Height, twist)
	case scaled:
		s = sdf.ScaleExtrude3D(profile, e.Height, scale)
	default:
		s = sdf.Extrude3D(profile, e.Height)
	}
	if !e.Center {
		s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: e.Height / 2}))
	}
	return wrap(s), nil
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// Union returns the union of the solids.
func (k *SdfxKernel) Union(s ...kernel.Solid) (kernel.Solid, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("sdfx union: %w", errNoOperands)
	}
	parts := make([]sdf.SDF3, len(s))
	for i := range s {
		parts[i] = unwrap(s[i])
	}
	return wrap(sdf.Union3D(parts...)), nil
}

// Difference returns a minus every solid in b.
func (k *SdfxKernel) Difference(a kernel.Solid, b ...kernel.Solid) (kernel.Solid, error) {
	if len(b) == 0 {
		return a, nil
	}
	cut, err := k.Union(b...)
	if err != nil {
		return nil, err
	}
	return wrap(sdf.Difference3D(unwrap(a), unwrap(cut))), nil
}

// Intersection returns the intersection of the solids.
func (k *SdfxKernel) Intersection(s ...kernel.Solid) (kernel.Solid, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("sdfx intersection: %w", errNoOperands)
	}
	acc := unwrap(s[0])
	for _, next := range s[1:] {
		acc = sdf.Intersect3D(acc, unwrap(next))
	}
	return wrap(acc), nil
}

func (k *SdfxKernel) Union2D(p ...kernel.Profile) (kernel.Profile, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("sdfx union2d: %w", errNoOperands)
	}
	parts := make([]sdf.SDF2, len(p))
	for i := range p {
		parts[i] = unwrap2(p[i])
	}
	return wrap2(sdf.Union2D(parts...)), nil
}

func (k *SdfxKernel) Difference2D(a kernel.Profile, b ...kernel.Profile) (kernel.Profile, error) {
	if len(b) == 0 {
		return a, nil
	}
	cut, err := k.Union2D(b...)
	if err != nil {
		return nil, err
	}
	return wrap2(sdf.Difference2D(unwrap2(a), unwrap2(cut))), nil
}

func (k *SdfxKernel) Intersection2D(p ...kernel.Profile) (kernel.Profile, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("sdfx intersection2d: %w", errNoOperands)
	}
	acc := unwrap2(p[0])
	for _, next := range p[1:] {
		acc = sdf.Intersect2D(acc, unwrap2(next))
	}
	return wrap2(acc), nil
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// Transform places s with the affine frame m. A singular frame is reported
// as an error wrapping frame.ErrSingular.
func (k *SdfxKernel) Transform(s kernel.Solid, m frame.Matrix3D) (kernel.Solid, error) {
	if m.IsIdentity(0) {
		return s, nil
	}
	// sdf.Transform3D inverts without checking.
	if _, err := m.Inverse(); err != nil {
		return nil, fmt.Errorf("sdfx transform: %w", err)
	}
	return wrap(sdf.Transform3D(unwrap(s), toM44(m))), nil
}

// Transform2D places p with the planar frame m.
func (k *SdfxKernel) Transform2D(p kernel.Profile, m frame.Matrix2D) (kernel.Profile, error) {
	if m.IsIdentity(0) {
		return p, nil
	}
	if _, err := m.Inverse(); err != nil {
		return nil, fmt.Errorf("sdfx transform2d: %w", err)
	}
	return wrap2(sdf.Transform2D(unwrap2(p), toM33(m))), nil
}

// toM44 flattens m row by row into an sdfx matrix.
func toM44(m frame.Matrix3D) sdf.M44 {
	var flat [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			flat[4*i+j] = m[i][j]
		}
	}
	return sdf.NewM44(flat)
}

func toM33(m frame.Matrix2D) sdf.M33 {
	var flat [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			flat[3*i+j] = m[i][j]
		}
	}
	return sdf.NewM33(flat)
}

// ---------------------------------------------------------------------------
// Mesh output
// ---------------------------------------------------------------------------

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	cells := k.MeshCells
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

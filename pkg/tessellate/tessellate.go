// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per root object.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/anchorscad/pkg/frame"
	"github.com/chazu/anchorscad/pkg/kernel"
	"github.com/chazu/anchorscad/pkg/scene"
)

// transformStack accumulates reference frames during scene traversal. The
// top is the world frame of the object being visited.
type transformStack struct {
	frames []frame.Matrix3D
}

func newTransformStack(base frame.Matrix3D) *transformStack {
	return &transformStack{frames: []frame.Matrix3D{base}}
}

// push enters a child whose frame is local, relative to the current top.
func (ts *transformStack) push(local frame.Matrix3D) {
	ts.frames = append(ts.frames, ts.top().Mul(local))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 1 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

func (ts *transformStack) top() frame.Matrix3D {
	return ts.frames[len(ts.frames)-1]
}

// part is a subtree to mesh together with the world frame of its parent.
type part struct {
	obj    *scene.Object
	parent frame.Matrix3D
}

// Tessellate produces one triangle mesh per scene root using the provided
// geometry kernel. When any object carries the root modifier only those
// subtrees are meshed. Disabled and background objects are skipped, as is a
// root that ends up with no geometry. The tessellator never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	parts := rootModifierParts(s)
	if len(parts) == 0 {
		for _, root := range s.Roots {
			parts = append(parts, part{obj: root, parent: frame.Identity3D()})
		}
	}

	var meshes []*kernel.Mesh
	for i, p := range parts {
		solid, err := buildSolid(k, p.obj, newTransformStack(p.parent))
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", partName(p.obj, i), err)
		}
		if solid == nil {
			continue
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", partName(p.obj, i), err)
		}
		mesh.PartName = partName(p.obj, i)
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}

// partName prefers the object's name and falls back to its position.
func partName(o *scene.Object, i int) string {
	if o.Name() != "" {
		return o.Name()
	}
	return fmt.Sprintf("part-%d", i)
}

// rootModifierParts finds every object marked with the root modifier along
// with the world frame it is placed in.
func rootModifierParts(s *scene.Scene) []part {
	var parts []part
	var visit func(o *scene.Object, ts *transformStack)
	visit = func(o *scene.Object, ts *transformStack) {
		if o.Modifier == scene.ModRoot {
			parts = append(parts, part{obj: o, parent: ts.top()})
			return
		}
		comp, ok := o.Shape.(scene.Composite)
		if !ok {
			return
		}
		ts.push(*o.RefSys())
		for _, c := range comp.Children {
			visit(c, ts)
		}
		ts.pop()
	}
	for _, root := range s.Roots {
		visit(root, newTransformStack(frame.Identity3D()))
	}
	return parts
}

func skipped(m scene.Modifier) bool {
	return m == scene.ModDisable || m == scene.ModBackground
}

// buildSolid returns the kernel solid for o placed in world coordinates, or
// nil when o contributes no geometry.
func buildSolid(k kernel.Kernel, o *scene.Object, ts *transformStack) (kernel.Solid, error) {
	if skipped(o.Modifier) {
		return nil, nil
	}
	ts.push(*o.RefSys())
	defer ts.pop()

	if comp, ok := o.Shape.(scene.Composite); ok {
		return handleComposite(k, comp, ts)
	}

	local, err := handlePrimitive(k, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", describe(o), err)
	}
	solid, err := k.Transform(local, ts.top())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", describe(o), err)
	}
	return solid, nil
}

func describe(o *scene.Object) string {
	if o.Name() != "" {
		return fmt.Sprintf("%q", o.Name())
	}
	return fmt.Sprintf("%T", o.Shape)
}

// handlePrimitive creates the local geometry of a leaf object.
func handlePrimitive(k kernel.Kernel, o *scene.Object) (kernel.Solid, error) {
	switch data := o.Shape.(type) {
	case scene.Cube:
		return k.Box(data.X, data.Y, data.Z)
	case scene.Sphere:
		return k.Sphere(data.R)
	case scene.Cylinder:
		return k.Cylinder(data.H, data.R1, data.R2)
	case scene.Extrusion:
		if data.Profile == nil {
			return nil, errors.New("extrusion has no profile")
		}
		profile, err := buildProfile(k, data.Profile)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, errors.New("extrusion profile is empty")
		}
		return k.Extrude(profile, extrusionParams(data))
	default:
		return nil, fmt.Errorf("unsupported shape %T", o.Shape)
	}
}

func extrusionParams(e scene.Extrusion) kernel.Extrusion {
	p := kernel.Extrusion{Height: e.Height, Center: e.Center, Twist: e.Twist}
	switch len(e.Scale) {
	case 0:
	case 1:
		p.Scale = [2]float64{e.Scale[0], e.Scale[0]}
	default:
		p.Scale = [2]float64{e.Scale[0], e.Scale[1]}
	}
	return p
}

// handleComposite combines the children with the composite's operator.
// Skipped children are left out; a difference whose first child is skipped
// is empty.
func handleComposite(k kernel.Kernel, comp scene.Composite, ts *transformStack) (kernel.Solid, error) {
	if comp.Op == scene.OpHull || comp.Op == scene.OpMinkowski {
		return nil, fmt.Errorf("%s: %w", comp.Op, kernel.ErrUnsupported)
	}

	var solids []kernel.Solid
	for i, child := range comp.Children {
		s, err := buildSolid(k, child, ts)
		if err != nil {
			return nil, err
		}
		if s == nil {
			if comp.Op == scene.OpDifference && i == 0 {
				return nil, nil
			}
			continue
		}
		solids = append(solids, s)
	}
	if len(solids) == 0 {
		return nil, nil
	}

	switch comp.Op {
	case scene.OpUnion:
		return k.Union(solids...)
	case scene.OpDifference:
		return k.Difference(solids[0], solids[1:]...)
	case scene.OpIntersection:
		return k.Intersection(solids...)
	default:
		return nil, fmt.Errorf("unknown boolean operator %v", comp.Op)
	}
}

// buildProfile returns the kernel profile for o in the coordinates of its
// parent, or nil when o contributes no area.
func buildProfile(k kernel.Kernel, o *scene.Object2D) (kernel.Profile, error) {
	if skipped(o.Modifier) {
		return nil, nil
	}

	var (
		p   kernel.Profile
		err error
	)
	switch data := o.Shape.(type) {
	case scene.Square:
		p, err = k.Rect(data.X, data.Y)
	case scene.Circle:
		p, err = k.Circle(data.R)
	case scene.Polygon:
		p, err = buildPolygon(k, data)
	case scene.Text:
		err = fmt.Errorf("text %q: %w", data.Text, kernel.ErrUnsupported)
	case scene.Composite2D:
		p, err = buildComposite2D(k, data)
	default:
		err = fmt.Errorf("unsupported profile %T", o.Shape)
	}
	if err != nil || p == nil {
		return nil, err
	}
	return k.Transform2D(p, *o.RefSys())
}

// buildPolygon treats the first path as the outline and later paths as
// holes. Without paths the points form a single outline.
func buildPolygon(k kernel.Kernel, poly scene.Polygon) (kernel.Profile, error) {
	if len(poly.Paths) == 0 {
		return k.Polygon(poly.Points)
	}
	var rings []kernel.Profile
	for i, path := range poly.Paths {
		pts := make([]frame.Vector2D, 0, len(path))
		for _, idx := range path {
			if idx < 0 || idx >= len(poly.Points) {
				return nil, fmt.Errorf("polygon path %d: index %d out of range", i, idx)
			}
			pts = append(pts, poly.Points[idx])
		}
		ring, err := k.Polygon(pts)
		if err != nil {
			return nil, fmt.Errorf("polygon path %d: %w", i, err)
		}
		rings = append(rings, ring)
	}
	return k.Difference2D(rings[0], rings[1:]...)
}

func buildComposite2D(k kernel.Kernel, comp scene.Composite2D) (kernel.Profile, error) {
	if comp.Op == scene.OpHull || comp.Op == scene.OpMinkowski {
		return nil, fmt.Errorf("%s: %w", comp.Op, kernel.ErrUnsupported)
	}
	var profiles []kernel.Profile
	for i, child := range comp.Children {
		p, err := buildProfile(k, child)
		if err != nil {
			return nil, err
		}
		if p == nil {
			if comp.Op == scene.OpDifference && i == 0 {
				return nil, nil
			}
			continue
		}
		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	switch comp.Op {
	case scene.OpUnion:
		return k.Union2D(profiles...)
	case scene.OpDifference:
		return k.Difference2D(profiles[0], profiles[1:]...)
	case scene.OpIntersection:
		return k.Intersection2D(profiles...)
	default:
		return nil, fmt.Errorf("unknown boolean operator %v", comp.Op)
	}
}

package scene

import "github.com/chazu/anchorscad/pkg/frame"

// Marker sizes relative to a unit coordinate system.
const (
	originMarkerScale = 0.6
	anchorMarkerScale = 0.3
	markerFn          = 10
)

// Pipe returns a tube of length l along z. The bore is extended past both
// ends so the difference leaves no skin.
func Pipe(name string, l, rOuter, rInner float64) *Object {
	outer := NewCylinder("outer wall of "+name, l, rOuter, rOuter)
	inner := NewCylinder("bore of "+name, l+2, rInner, rInner)
	inner.RefSys().TranslateZ(-1)
	return Difference(name, outer, inner)
}

// Wedge returns the hull of an x by y sheet on z = 0 and the same sheet
// tilted by angle degrees about the y axis through the origin.
func Wedge(name string, x, y, angle float64) *Object {
	const sliver = 1e-6
	lower := NewCubeCoords("lower face of "+name, 0, 0, 0, x, y, sliver)
	upper := NewCubeCoords("upper face of "+name, 0, 0, 0, x, y, sliver)
	upper.RefSys().RelRotateY(-angle)
	return Hull(name, lower, upper)
}

// PipeCut returns the slice of a pipe that falls inside a wedge of the given
// angle.
func PipeCut(name string, l, rOuter, rInner, angle float64) *Object {
	p := Pipe("pipe for "+name, l, rOuter, rInner)
	stencil := Wedge("wedge for "+name, 10*rOuter+2, -l, angle)
	stencil.RefSys().RotateX(-90)
	return Intersection(name, p, stencil)
}

// Arrow points along +z: a shaft for 90% of the length and a cone tip.
func Arrow(name string, length, width float64) *Object {
	shaft := NewCylinder(name+"::arrow::shaft", 0.9*length, width, width)
	tip := NewCylinder(name+"::arrow::tip", 0.1*length, 2*width, 0)
	tip.RefSys().TranslateZ(0.9 * length)
	return Union(name, shaft, tip)
}

// axes returns red, green and blue unit arrows along x, y and z.
func axes(prefix string) []*Object {
	x := Arrow(prefix+"::x_axis", 1, 0.05)
	x.RefSys().RotateY(90)
	x.SetColour(ColourNamed("red"))

	y := Arrow(prefix+"::y_axis", 1, 0.05)
	y.RefSys().RotateX(-90)
	y.SetColour(ColourNamed("green"))

	z := Arrow(prefix+"::z_axis", 1, 0.05)
	z.SetColour(ColourNamed("blue"))
	return []*Object{x, y, z}
}

// CoordinateSystem returns unit axes around a small origin sphere.
func CoordinateSystem(name string) *Object {
	parts := append(axes("coordinate_system"), NewSphere("coordinate_system::origin", 0.05))
	cs := Union(name, parts...)
	cs.SetFn(markerFn)
	return cs
}

// OriginMarker returns the axes drawn by ShowOrigin.
func OriginMarker(name string) *Object {
	base := NewCube("object_origin::origin", 0.5, 0.5, 0.5)
	base.SetColour(ColourNamed("red"))
	m := Union(name, append(axes("object_origin"), base)...)
	m.SetFn(markerFn)
	m.RefSys().Scale(originMarkerScale, originMarkerScale, originMarkerScale)
	return m
}

// AnchorMarker returns the axes drawn by ShowAnchors for an anchor at the
// given frame.
func AnchorMarker(name string, at frame.Matrix3D) *Object {
	base := NewSphere("object_anchor::origin", 0.5)
	base.SetColour(ColourNamed("blue"))
	m := Union(name, append(axes("object_anchor"), base)...)
	m.SetFn(markerFn)
	m.SetRefSys(at)
	m.RefSys().Scale(anchorMarkerScale, anchorMarkerScale, anchorMarkerScale)
	return m
}

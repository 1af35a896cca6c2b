// Package scad writes scenes as OpenSCAD source.
package scad

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/anchorscad/pkg/frame"
	"github.com/chazu/anchorscad/pkg/scene"
)

// DefaultIndent is used when a Printer has no Indent set.
const DefaultIndent = "\t"

// Printer controls the layout of the generated source.
type Printer struct {
	Indent string
}

// Write prints objs with the default layout.
func Write(w io.Writer, objs ...*scene.Object) error {
	return Printer{}.Fprint(w, objs...)
}

// WriteScene prints s with the default layout.
func WriteScene(w io.Writer, s *scene.Scene) error {
	return Printer{}.FprintScene(w, s)
}

// Render returns the source for a single object.
func Render(o *scene.Object) string {
	e := Printer{}.emitter()
	e.object(o, 0)
	return e.b.String()
}

// Fprint writes every object in order.
func (p Printer) Fprint(w io.Writer, objs ...*scene.Object) error {
	e := p.emitter()
	for _, o := range objs {
		e.object(o, 0)
	}
	_, err := io.WriteString(w, e.b.String())
	return err
}

// FprintScene writes the scene header, the global resolution defaults and
// every root.
func (p Printer) FprintScene(w io.Writer, s *scene.Scene) error {
	e := p.emitter()
	e.line(0, "// anchorscad scene %s", s.ID)
	if s.Defaults.Fn > 0 {
		e.line(0, "$fn = %d;", s.Defaults.Fn)
	}
	if s.Defaults.Fa > 0 {
		e.line(0, "$fa = %s;", num(s.Defaults.Fa))
	}
	if s.Defaults.Fs > 0 {
		e.line(0, "$fs = %s;", num(s.Defaults.Fs))
	}
	for _, o := range s.Roots {
		e.object(o, 0)
	}
	_, err := io.WriteString(w, e.b.String())
	return err
}

func (p Printer) emitter() *emitter {
	indent := p.Indent
	if indent == "" {
		indent = DefaultIndent
	}
	return &emitter{indent: indent}
}

// ---------------------------------------------------------------------------
// Emitter
// ---------------------------------------------------------------------------

type emitter struct {
	b      strings.Builder
	indent string
}

func (e *emitter) line(depth int, format string, args ...any) {
	e.b.WriteString(strings.Repeat(e.indent, depth))
	fmt.Fprintf(&e.b, format, args...)
	e.b.WriteByte('\n')
}

func (e *emitter) open(depth int, format string, args ...any) {
	e.line(depth, format, args...)
	e.line(depth, "{")
}

func (e *emitter) close(depth int) { e.line(depth, "}") }

// object writes o as: name comment, colour scope, frame scope, then the
// shape and any markers.
func (e *emitter) object(o *scene.Object, depth int) {
	if o.Name() != "" {
		e.line(depth, "// %s", o.Name())
	}
	d := depth
	if o.Colour.IsSet() {
		e.open(d, "color(%s)", o.Colour)
		d++
	}
	e.open(d, "multmatrix(m = %s)", matrix(*o.RefSys()))
	e.shape(o, d+1)
	e.markers(o, d+1)
	e.close(d)
	if o.Colour.IsSet() {
		e.close(depth)
	}
}

func (e *emitter) shape(o *scene.Object, d int) {
	mod := o.Modifier.Prefix()
	switch s := o.Shape.(type) {
	case scene.Cube:
		e.line(d, "%scube([%s, %s, %s], center=true);", mod, num(s.X), num(s.Y), num(s.Z))
	case scene.Sphere:
		e.line(d, "%ssphere(r=%s%s);", mod, num(s.R), res(s.Res))
	case scene.Cylinder:
		e.line(d, "%scylinder(h=%s, r1=%s, r2=%s%s);", mod, num(s.H), num(s.R1), num(s.R2), res(s.Res))
	case scene.Extrusion:
		e.open(d, "%slinear_extrude(%s)", mod, extrudeArgs(s))
		if s.Profile != nil {
			e.object2D(s.Profile, d+1)
		}
		e.close(d)
	case scene.Composite:
		e.open(d, "%s%s()", mod, s.Op)
		for _, c := range s.Children {
			e.object(c, d+1)
		}
		e.close(d)
	}
}

// markers draws anchor and origin helpers inside the object's frame, so
// anchors appear where they act.
func (e *emitter) markers(o *scene.Object, d int) {
	if o.Marker == scene.MarkAnchors {
		for _, name := range o.Anchors().Names() {
			a := o.Anchors()[name]
			e.object(scene.AnchorMarker("anchor "+name+" of "+label(o.Name()), *a.RefSys()), d)
		}
	}
	if o.Marker == scene.MarkAnchors || o.Marker == scene.MarkOrigin {
		e.object(scene.OriginMarker("origin of "+label(o.Name())), d)
	}
}

func (e *emitter) object2D(o *scene.Object2D, depth int) {
	if o.Name() != "" {
		e.line(depth, "// %s", o.Name())
	}
	d := depth
	if o.Colour.IsSet() {
		e.open(d, "color(%s)", o.Colour)
		d++
	}
	e.open(d, "multmatrix(m = %s)", matrix(o.RefSys().To3D()))
	e.shape2D(o, d+1)
	e.close(d)
	if o.Colour.IsSet() {
		e.close(depth)
	}
}

func (e *emitter) shape2D(o *scene.Object2D, d int) {
	mod := o.Modifier.Prefix()
	switch s := o.Shape.(type) {
	case scene.Square:
		e.line(d, "%ssquare([%s, %s], center=true);", mod, num(s.X), num(s.Y))
	case scene.Circle:
		e.line(d, "%scircle(r=%s%s);", mod, num(s.R), res(s.Res))
	case scene.Polygon:
		e.line(d, "%spolygon(%s);", mod, polygonArgs(s))
	case scene.Text:
		e.line(d, "%stext(%s, font=%s, spacing=%s, size=%d);",
			mod, strconv.Quote(s.Text), strconv.Quote(s.Font), num(s.Spacing), s.Size)
	case scene.Composite2D:
		e.open(d, "%s%s()", mod, s.Op)
		for _, c := range s.Children {
			e.object2D(c, d+1)
		}
		e.close(d)
	}
}

// ---------------------------------------------------------------------------
// Formatting helpers
// ---------------------------------------------------------------------------

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func label(name string) string {
	if name == "" {
		return "unnamed object"
	}
	return name
}

// matrix renders m as an OpenSCAD 4x4 list literal.
func matrix(m frame.Matrix3D) string {
	rows := make([]string, 4)
	for i := range rows {
		cells := make([]string, 4)
		for j := range cells {
			cells[j] = num(m[i][j])
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

func res(r scene.Resolution) string {
	var b strings.Builder
	if r.Fn > 0 {
		fmt.Fprintf(&b, ", $fn=%d", r.Fn)
	}
	if r.Fa > 0 {
		fmt.Fprintf(&b, ", $fa=%s", num(r.Fa))
	}
	if r.Fs > 0 {
		fmt.Fprintf(&b, ", $fs=%s", num(r.Fs))
	}
	return b.String()
}

func extrudeArgs(s scene.Extrusion) string {
	args := []string{
		"height=" + num(s.Height),
		"center=" + strconv.FormatBool(s.Center),
		"convexity=" + strconv.Itoa(s.Convexity),
		"twist=" + num(s.Twist),
	}
	if s.Slices > 0 {
		args = append(args, "slices="+strconv.Itoa(s.Slices))
	}
	switch len(s.Scale) {
	case 0:
	case 1:
		args = append(args, "scale="+num(s.Scale[0]))
	default:
		args = append(args, fmt.Sprintf("scale=[%s, %s]", num(s.Scale[0]), num(s.Scale[1])))
	}
	return strings.Join(args, ", ") + res(s.Res)
}

func polygonArgs(s scene.Polygon) string {
	pts := make([]string, len(s.Points))
	for i, p := range s.Points {
		pts[i] = "[" + num(p.X()) + ", " + num(p.Y()) + "]"
	}
	out := "points=[" + strings.Join(pts, ", ") + "]"
	if len(s.Paths) > 0 {
		paths := make([]string, len(s.Paths))
		for i, path := range s.Paths {
			idx := make([]string, len(path))
			for j, v := range path {
				idx[j] = strconv.Itoa(v)
			}
			paths[i] = "[" + strings.Join(idx, ", ") + "]"
		}
		out += ", paths=[" + strings.Join(paths, ", ") + "]"
	}
	if s.Convexity > 0 {
		out += ", convexity=" + strconv.Itoa(s.Convexity)
	}
	return out + res(s.Res)
}

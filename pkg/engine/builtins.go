package engine

import (
	"errors"
	"fmt"

	"github.com/chazu/anchorscad/pkg/anchor"
	"github.com/chazu/anchorscad/pkg/frame"
	"github.com/chazu/anchorscad/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpObject wraps a solid so it can be passed between builtins.
type sexpObject struct {
	obj *scene.Object
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %q)", o.obj.Name())
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// sexpProfile wraps a planar object.
type sexpProfile struct {
	obj *scene.Object2D
}

func (p *sexpProfile) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(profile %q)", p.obj.Name())
}
func (p *sexpProfile) Type() *zygo.RegisteredType { return nil }

// sexpAnchor wraps a handle on a solid's anchor. The anchor is looked up
// each time the handle is used.
type sexpAnchor struct {
	h anchor.Handle3D
}

func (a *sexpAnchor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(anchor %q %q)", a.h.Node.Name(), a.h.Anchor)
}
func (a *sexpAnchor) Type() *zygo.RegisteredType { return nil }

type sexpAnchor2D struct {
	h anchor.Handle2D
}

func (a *sexpAnchor2D) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(anchor %q %q)", a.h.Node.Name(), a.h.Anchor)
}
func (a *sexpAnchor2D) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Builder state
// ---------------------------------------------------------------------------

// builder is the per-evaluation state the builtins close over.
type builder struct {
	scene *scene.Scene
	// snapErr records the snap failure that aborted evaluation, if any.
	snapErr *anchor.SnapError
}

// nameKW returns the optional :name keyword.
func nameKW(fn string, pa kwArgs) (string, error) {
	v, ok := pa.kw["name"]
	if !ok {
		return "", nil
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", fn, err)
	}
	return s, nil
}

func toObject(s zygo.Sexp) (*scene.Object, error) {
	if o, ok := s.(*sexpObject); ok {
		return o.obj, nil
	}
	return nil, fmt.Errorf("expected solid object, got %T (%s)", s, s.SexpString(nil))
}

func toProfile(s zygo.Sexp) (*scene.Object2D, error) {
	if p, ok := s.(*sexpProfile); ok {
		return p.obj, nil
	}
	return nil, fmt.Errorf("expected profile, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// builtinFunc is the signature zygomys expects from AddFunction.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

type transformKind int

const (
	kindRotate transformKind = iota
	kindTranslate
	kindScale
)

// apply3D applies a transform builtin to a spatial frame. Absolute
// transforms act in the frame's local axes, relative ones in its parent's.
func apply3D(m *frame.Matrix3D, kind transformKind, rel bool, v []float64) {
	switch kind {
	case kindRotate:
		if rel {
			m.RelRotate(v[0], v[1], v[2])
		} else {
			m.Rotate(v[0], v[1], v[2])
		}
	case kindTranslate:
		if rel {
			m.RelTranslate(v[0], v[1], v[2])
		} else {
			m.Translate(v[0], v[1], v[2])
		}
	case kindScale:
		if len(v) == 1 {
			v = []float64{v[0], v[0], v[0]}
		}
		if rel {
			m.RelScale(v[0], v[1], v[2])
		} else {
			m.Scale(v[0], v[1], v[2])
		}
	}
}

func apply2D(m *frame.Matrix2D, kind transformKind, rel bool, v []float64) {
	switch kind {
	case kindRotate:
		if rel {
			m.RelRotate(v[0])
		} else {
			m.Rotate(v[0])
		}
	case kindTranslate:
		if rel {
			m.RelTranslate(v[0], v[1])
		} else {
			m.Translate(v[0], v[1])
		}
	case kindScale:
		if len(v) == 1 {
			v = []float64{v[0], v[0]}
		}
		if rel {
			m.RelScale(v[0], v[1])
		} else {
			m.Scale(v[0], v[1])
		}
	}
}

// arities3D and arities2D list the accepted argument counts per kind.
var (
	arities3D = map[transformKind][]int{kindRotate: {3}, kindTranslate: {3}, kindScale: {1, 3}}
	arities2D = map[transformKind][]int{kindRotate: {1}, kindTranslate: {2}, kindScale: {1, 2}}
)

// transformBuiltin returns the implementation of rotate, translate and scale
// and their rel- variants. The target is returned so calls can be nested.
func transformBuiltin(fn string, kind transformKind, rel bool) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a target", fn)
		}
		target, rest := args[0], args[1:]

		switch t := target.(type) {
		case *sexpObject:
			v, err := positionalFloats(rest, arities3D[kind]...)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			apply3D(t.obj.RefSys(), kind, rel, v)
		case *sexpAnchor:
			v, err := positionalFloats(rest, arities3D[kind]...)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			a, err := t.h.Get()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			apply3D(a.RefSys(), kind, rel, v)
		case *sexpProfile:
			v, err := positionalFloats(rest, arities2D[kind]...)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			apply2D(t.obj.RefSys(), kind, rel, v)
		case *sexpAnchor2D:
			v, err := positionalFloats(rest, arities2D[kind]...)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			a, err := t.h.Get()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			apply2D(a.RefSys(), kind, rel, v)
		default:
			return zygo.SexpNull, fmt.Errorf("%s: expected object, profile or anchor, got %T (%s)",
				fn, target, target.SexpString(nil))
		}
		return target, nil
	}
}

// frameOf returns the frame get-translate and friends decompose: an object's
// own frame, or an anchor's world frame.
func frameOf(fn string, s zygo.Sexp) (m3 *frame.Matrix3D, m2 *frame.Matrix2D, err error) {
	switch t := s.(type) {
	case *sexpObject:
		return t.obj.RefSys(), nil, nil
	case *sexpProfile:
		return nil, t.obj.RefSys(), nil
	case *sexpAnchor:
		w, err := t.h.World()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", fn, err)
		}
		return &w, nil, nil
	case *sexpAnchor2D:
		w, err := t.h.World()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", fn, err)
		}
		return nil, &w, nil
	}
	return nil, nil, fmt.Errorf("%s: expected object, profile or anchor, got %T (%s)", fn, s, s.SexpString(nil))
}

// decomposeBuiltin returns the implementation of get-translate, get-scale
// and get-rotate. 3D targets yield (x y z), planar ones (x y), except the
// planar rotation which is a single angle.
func decomposeBuiltin(fn string, get3 func(frame.Matrix3D) []float64, get2 func(frame.Matrix2D) []float64) builtinFunc {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", fn, len(args))
		}
		m3, m2, err := frameOf(fn, args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		if m3 != nil {
			return floatList(get3(*m3)...), nil
		}
		return floatList(get2(*m2)...), nil
	}
}

func translate3(m frame.Matrix3D) []float64 {
	x, y, z := m.GetTranslate()
	return []float64{x, y, z}
}

func translate2(m frame.Matrix2D) []float64 {
	x, y := m.GetTranslate()
	return []float64{x, y}
}

func scale3(m frame.Matrix3D) []float64 {
	x, y, z := m.GetScale()
	return []float64{x, y, z}
}

func scale2(m frame.Matrix2D) []float64 {
	x, y := m.GetScale()
	return []float64{x, y}
}

func rotate3(m frame.Matrix3D) []float64 {
	x, y, z := m.GetRotate()
	return []float64{x, y, z}
}

func rotate2(m frame.Matrix2D) []float64 { return []float64{m.GetRotate()} }

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all anchorscad DSL builtins into a zygomys
// environment. The builtins build objects and register roots on b.scene.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (cube 10 20 30 :name "box") or (cube 10)
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("cube", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := positionalFloats(pa.positional, 1, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		if len(v) == 1 {
			v = []float64{v[0], v[0], v[0]}
		}
		return &sexpObject{obj: scene.NewCube(n, v[0], v[1], v[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere 5 :name "ball")
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("sphere", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := positionalFloats(pa.positional, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpObject{obj: scene.NewSphere(n, v[0])}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder h r) or (cylinder h r1 r2)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("cylinder", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := positionalFloats(pa.positional, 2, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if len(v) == 2 {
			v = append(v, v[1])
		}
		return &sexpObject{obj: scene.NewCylinder(n, v[0], v[1], v[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (pipe length r-outer r-inner :name "tube")
	// -----------------------------------------------------------------------
	env.AddFunction("pipe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("pipe", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := positionalFloats(pa.positional, 3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pipe: %w", err)
		}
		return &sexpObject{obj: scene.Pipe(n, v[0], v[1], v[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (square 10 20), (circle 5)
	// -----------------------------------------------------------------------
	env.AddFunction("square", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("square", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := positionalFloats(pa.positional, 1, 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("square: %w", err)
		}
		if len(v) == 1 {
			v = append(v, v[0])
		}
		return &sexpProfile{obj: scene.NewSquare(n, v[0], v[1])}, nil
	})

	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("circle", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		v, err := positionalFloats(pa.positional, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		return &sexpProfile{obj: scene.NewCircle(n, v[0])}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (list (list 0 0) (list 10 0) (list 0 10)) :paths (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("polygon", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("polygon requires a list of points")
		}
		pts, err := toPoints(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: points: %w", err)
		}
		o := scene.NewPolygon(n, pts)
		poly := o.Shape.(scene.Polygon)
		if v, ok := pa.kw["paths"]; ok {
			if poly.Paths, err = toPaths(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: paths: %w", err)
			}
		}
		if v, ok := pa.kw["convexity"]; ok {
			if poly.Convexity, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: convexity: %w", err)
			}
		}
		o.Shape = poly
		return &sexpProfile{obj: o}, nil
	})

	// -----------------------------------------------------------------------
	// (text "hello" :font "Liberation Sans" :size 10 :spacing 1)
	// -----------------------------------------------------------------------
	env.AddFunction("text", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("text", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("text requires the string to render")
		}
		str, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("text: %w", err)
		}
		font, size, spacing := "", 10, 1.0
		if v, ok := pa.kw["font"]; ok {
			if font, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("text: font: %w", err)
			}
		}
		if v, ok := pa.kw["size"]; ok {
			if size, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("text: size: %w", err)
			}
		}
		if v, ok := pa.kw["spacing"]; ok {
			if spacing, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("text: spacing: %w", err)
			}
		}
		return &sexpProfile{obj: scene.NewText(n, str, font, size, spacing)}, nil
	})

	// -----------------------------------------------------------------------
	// (linear-extrude profile 10 :center true :twist 90 :slices 20 :scale 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("linear_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := nameKW("linear-extrude", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("linear-extrude requires a profile and a height")
		}
		profile, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: %w", err)
		}
		height, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear-extrude: height: %w", err)
		}

		o := scene.LinearExtrude(n, profile, height)
		ext := o.Shape.(scene.Extrusion)
		if v, ok := pa.kw["center"]; ok {
			if ext.Center, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: center: %w", err)
			}
		}
		if v, ok := pa.kw["twist"]; ok {
			if ext.Twist, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: twist: %w", err)
			}
		}
		if v, ok := pa.kw["slices"]; ok {
			if ext.Slices, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: slices: %w", err)
			}
		}
		if v, ok := pa.kw["convexity"]; ok {
			if ext.Convexity, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: convexity: %w", err)
			}
		}
		if v, ok := pa.kw["scale"]; ok {
			if f, err := toFloat64(v); err == nil {
				ext.Scale = []float64{f}
			} else if ext.Scale, err = toFloats(v); err != nil || len(ext.Scale) != 2 {
				return zygo.SexpNull, fmt.Errorf("linear-extrude: scale must be a number or a list of 2")
			}
		}
		o.Shape = ext
		return &sexpObject{obj: o}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b c :name "all"), likewise difference, intersection, hull and
	// minkowski. Profiles combine into profiles.
	// -----------------------------------------------------------------------
	booleans := []struct {
		fn  string
		mk3 func(string, ...*scene.Object) *scene.Object
		mk2 func(string, ...*scene.Object2D) *scene.Object2D
	}{
		{"union", scene.Union, scene.Union2D},
		{"difference", scene.Difference, scene.Difference2D},
		{"intersection", scene.Intersection, scene.Intersection2D},
		{"hull", scene.Hull, scene.Hull2D},
		{"minkowski", scene.Minkowski, scene.Minkowski2D},
	}
	for _, op := range booleans {
		env.AddFunction(op.fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			n, err := nameKW(op.fn, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			if len(pa.positional) > 0 {
				if _, ok := pa.positional[0].(*sexpProfile); ok {
					children := make([]*scene.Object2D, len(pa.positional))
					for i, c := range pa.positional {
						if children[i], err = toProfile(c); err != nil {
							return zygo.SexpNull, fmt.Errorf("%s: child %d: %w", op.fn, i+1, err)
						}
					}
					return &sexpProfile{obj: op.mk2(n, children...)}, nil
				}
			}
			children := make([]*scene.Object, len(pa.positional))
			for i, c := range pa.positional {
				if children[i], err = toObject(c); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: child %d: %w", op.fn, i+1, err)
				}
			}
			return &sexpObject{obj: op.mk3(n, children...)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate obj 1 2 3), (rel-rotate obj 0 90 0), (scale profile 2) ...
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", transformBuiltin("rotate", kindRotate, false))
	env.AddFunction("rel_rotate", transformBuiltin("rel-rotate", kindRotate, true))
	env.AddFunction("translate", transformBuiltin("translate", kindTranslate, false))
	env.AddFunction("rel_translate", transformBuiltin("rel-translate", kindTranslate, true))
	env.AddFunction("scale", transformBuiltin("scale", kindScale, false))
	env.AddFunction("rel_scale", transformBuiltin("rel-scale", kindScale, true))

	// -----------------------------------------------------------------------
	// (get-translate obj) => (x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("get_translate", decomposeBuiltin("get-translate", translate3, translate2))
	env.AddFunction("get_scale", decomposeBuiltin("get-scale", scale3, scale2))
	env.AddFunction("get_rotate", decomposeBuiltin("get-rotate", rotate3, rotate2))

	// -----------------------------------------------------------------------
	// (create-anchor obj "top") => anchor handle
	// -----------------------------------------------------------------------
	env.AddFunction("create_anchor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("create-anchor requires an object and a name")
		}
		aname, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("create-anchor: name: %w", err)
		}
		switch t := args[0].(type) {
		case *sexpObject:
			t.obj.CreateAnchor(aname)
			return &sexpAnchor{h: t.obj.Anchor(aname)}, nil
		case *sexpProfile:
			t.obj.CreateAnchor(aname)
			return &sexpAnchor2D{h: t.obj.Anchor(aname)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("create-anchor: expected object or profile, got %T (%s)",
			args[0], args[0].SexpString(nil))
	})

	// -----------------------------------------------------------------------
	// (anchor obj "top") => handle, resolved when used
	// -----------------------------------------------------------------------
	env.AddFunction("anchor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("anchor requires an object and a name")
		}
		aname, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("anchor: name: %w", err)
		}
		switch t := args[0].(type) {
		case *sexpObject:
			return &sexpAnchor{h: t.obj.Anchor(aname)}, nil
		case *sexpProfile:
			return &sexpAnchor2D{h: t.obj.Anchor(aname)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("anchor: expected object or profile, got %T (%s)",
			args[0], args[0].SexpString(nil))
	})

	// -----------------------------------------------------------------------
	// (snap (anchor peg "foot") (anchor base "top")) => peg
	// -----------------------------------------------------------------------
	env.AddFunction("snap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("snap requires a child anchor and a parent anchor")
		}
		var (
			err    error
			result zygo.Sexp
		)
		switch child := args[0].(type) {
		case *sexpAnchor:
			parent, ok := args[1].(*sexpAnchor)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("snap: parent must be a solid anchor, got %T", args[1])
			}
			err = child.h.SnapTo(parent.h)
			result = &sexpObject{obj: child.h.Node.(*scene.Object)}
		case *sexpAnchor2D:
			parent, ok := args[1].(*sexpAnchor2D)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("snap: parent must be a profile anchor, got %T", args[1])
			}
			err = child.h.SnapTo(parent.h)
			result = &sexpProfile{obj: child.h.Node.(*scene.Object2D)}
		default:
			return zygo.SexpNull, fmt.Errorf("snap: expected anchor, got %T (%s)", args[0], args[0].SexpString(nil))
		}
		if err != nil {
			var se *anchor.SnapError
			if errors.As(err, &se) {
				b.snapErr = se
			}
			return zygo.SexpNull, err
		}
		return result, nil
	})

	// -----------------------------------------------------------------------
	// (colour obj "red") or (colour obj 1 0 0) or (colour obj 1 0 0 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("colour", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("colour requires an object and a colour")
		}
		var c scene.Colour
		if s, ok := args[1].(*zygo.SexpStr); ok && len(args) == 2 {
			c = scene.ColourNamed(s.S)
		} else {
			v, err := positionalFloats(args[1:], 3, 4)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("colour: %w", err)
			}
			if len(v) == 3 {
				c = scene.ColourRGB(v[0], v[1], v[2])
			} else {
				c = scene.ColourRGBA(v[0], v[1], v[2], v[3])
			}
		}
		switch t := args[0].(type) {
		case *sexpObject:
			t.obj.SetColour(c)
		case *sexpProfile:
			t.obj.SetColour(c)
		default:
			return zygo.SexpNull, fmt.Errorf("colour: expected object or profile, got %T (%s)",
				args[0], args[0].SexpString(nil))
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (set-fn obj 64)
	// -----------------------------------------------------------------------
	env.AddFunction("set_fn", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-fn requires an object and a segment count")
		}
		fn, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-fn: %w", err)
		}
		switch t := args[0].(type) {
		case *sexpObject:
			t.obj.SetFn(fn)
		case *sexpProfile:
			t.obj.SetFn(fn)
		default:
			return zygo.SexpNull, fmt.Errorf("set-fn: expected object or profile, got %T (%s)",
				args[0], args[0].SexpString(nil))
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (show-anchors obj), (show-origin obj), (modifier obj :debug)
	// -----------------------------------------------------------------------
	marker := func(fn string, set func(*scene.Object)) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 object", fn)
			}
			o, err := toObject(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			set(o)
			return args[0], nil
		}
	}
	env.AddFunction("show_anchors", marker("show-anchors", (*scene.Object).ShowAnchors))
	env.AddFunction("show_origin", marker("show-origin", (*scene.Object).ShowOrigin))

	env.AddFunction("modifier", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("modifier requires an object and a modifier keyword")
		}
		o, err := toObject(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("modifier: %w", err)
		}
		kw, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("modifier: %w", err)
		}
		switch kw {
		case "none":
			o.SetModifier(scene.ModNone)
		case "debug":
			o.SetModifier(scene.ModDebug)
		case "background":
			o.SetModifier(scene.ModBackground)
		case "root":
			o.SetModifier(scene.ModRoot)
		case "disable":
			o.SetModifier(scene.ModDisable)
		default:
			return zygo.SexpNull, fmt.Errorf("modifier: invalid modifier %q, expected none, debug, background, root or disable", kw)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (emit a b ...) registers roots of the scene
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for i, a := range args {
			if _, ok := a.(*sexpProfile); ok {
				return zygo.SexpNull, fmt.Errorf("emit: argument %d: profiles must be extruded before emitting", i+1)
			}
			o, err := toObject(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("emit: argument %d: %w", i+1, err)
			}
			b.scene.Add(o)
		}
		return zygo.SexpNull, nil
	})
}

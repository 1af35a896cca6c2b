package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/anchorscad/pkg/frame"
	"github.com/chazu/anchorscad/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

const tol = 1e-9

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cube 1 2 3 :name "box")`,
			expect: `(cube 1 2 3 "__kw_name" "box")`,
		},
		{
			name:   "multiple keywords",
			input:  `(text "hi" :size 10 :spacing 1)`,
			expect: `(text "hi" "__kw_size" 10 "__kw_spacing" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(linear-extrude p 10 :center true)`,
			expect: `(linear_extrude p 10 "__kw_center" true)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(translate b -5 0 0)`,
			expect: `(translate b -5 0 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:rel-frame`,
			expect: `"__kw_rel-frame"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// mustEvaluate runs source and fails the test on any error.
func mustEvaluate(t *testing.T, source string) *scene.Scene {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	return s
}

// evalErrors runs source that is expected to fail and returns the joined
// error messages.
func evalErrors(t *testing.T, source string) string {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

func lookup(t *testing.T, s *scene.Scene, name string) *scene.Object {
	t.Helper()
	o := s.Lookup(name)
	if o == nil {
		t.Fatalf("expected object named %q", name)
	}
	return o
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

func TestCube(t *testing.T) {
	s := mustEvaluate(t, `(emit (cube 10 20 30 :name "box"))`)
	if s.Len() != 1 {
		t.Fatalf("expected 1 root, got %d", s.Len())
	}
	box := lookup(t, s, "box")
	if got, want := box.Shape, (scene.Cube{X: 10, Y: 20, Z: 30}); got != want {
		t.Errorf("shape = %#v, want %#v", got, want)
	}
}

func TestCubeUniform(t *testing.T) {
	s := mustEvaluate(t, `(emit (cube 4 :name "c"))`)
	if got, want := lookup(t, s, "c").Shape, (scene.Cube{X: 4, Y: 4, Z: 4}); got != want {
		t.Errorf("shape = %#v, want %#v", got, want)
	}
}

func TestVariableReference(t *testing.T) {
	source := `
(def w 19)
(def b (cube w 1 2.5 :name "b"))
(emit b)
`
	s := mustEvaluate(t, source)
	if got, want := lookup(t, s, "b").Shape, (scene.Cube{X: 19, Y: 1, Z: 2.5}); got != want {
		t.Errorf("shape = %#v, want %#v", got, want)
	}
}

func TestSphereAndCylinder(t *testing.T) {
	source := `
(emit (sphere 3 :name "ball"))
(emit (cylinder 10 2 :name "rod"))
(emit (cylinder 10 2 0 :name "cone"))
`
	s := mustEvaluate(t, source)
	if got := lookup(t, s, "ball").Shape.(scene.Sphere); got.R != 3 {
		t.Errorf("sphere R = %v, want 3", got.R)
	}
	rod := lookup(t, s, "rod").Shape.(scene.Cylinder)
	if rod.H != 10 || rod.R1 != 2 || rod.R2 != 2 {
		t.Errorf("rod = %+v, want h=10 r1=r2=2", rod)
	}
	cone := lookup(t, s, "cone").Shape.(scene.Cylinder)
	if cone.R1 != 2 || cone.R2 != 0 {
		t.Errorf("cone = %+v, want r1=2 r2=0", cone)
	}
}

func TestWrongArity(t *testing.T) {
	msg := evalErrors(t, `(cube 1 2)`)
	if !strings.Contains(msg, "cube") {
		t.Errorf("error should name the builtin, got: %s", msg)
	}
}

func TestPipe(t *testing.T) {
	s := mustEvaluate(t, `(emit (pipe 10 5 4 :name "tube"))`)
	comp, ok := lookup(t, s, "tube").Shape.(scene.Composite)
	if !ok || comp.Op != scene.OpDifference || len(comp.Children) != 2 {
		t.Fatalf("pipe shape = %#v, want a two-child difference", lookup(t, s, "tube").Shape)
	}
}

// ---------------------------------------------------------------------------
// Profiles and extrusion
// ---------------------------------------------------------------------------

func TestLinearExtrudeKeywords(t *testing.T) {
	source := `
(emit (linear-extrude (square 4 2 :name "p") 10
        :center true :twist 45 :slices 12 :scale 0.5 :name "bar"))
`
	s := mustEvaluate(t, source)
	ext, ok := lookup(t, s, "bar").Shape.(scene.Extrusion)
	if !ok {
		t.Fatalf("expected Extrusion, got %T", lookup(t, s, "bar").Shape)
	}
	if ext.Height != 10 || !ext.Center || ext.Twist != 45 || ext.Slices != 12 {
		t.Errorf("extrusion = %+v", ext)
	}
	if len(ext.Scale) != 1 || ext.Scale[0] != 0.5 {
		t.Errorf("scale = %v, want [0.5]", ext.Scale)
	}
	if got, want := ext.Profile.Shape, (scene.Square{X: 4, Y: 2}); got != want {
		t.Errorf("profile = %#v, want %#v", got, want)
	}
}

func TestLinearExtrudeScaleList(t *testing.T) {
	s := mustEvaluate(t, `(emit (linear-extrude (circle 1) 2 :scale (list 1 2) :name "e"))`)
	ext := lookup(t, s, "e").Shape.(scene.Extrusion)
	if len(ext.Scale) != 2 || ext.Scale[0] != 1 || ext.Scale[1] != 2 {
		t.Errorf("scale = %v, want [1 2]", ext.Scale)
	}
}

func TestPolygonWithPaths(t *testing.T) {
	source := `
(def pts (list (list 0 0) (list 10 0) (list 10 10) (list 0 10)
               (list 2 2) (list 8 2) (list 8 8) (list 2 8)))
(emit (linear-extrude
        (polygon pts :paths (list (list 0 1 2 3) (list 4 5 6 7)) :convexity 4)
        1 :name "frame"))
`
	s := mustEvaluate(t, source)
	poly := lookup(t, s, "frame").Shape.(scene.Extrusion).Profile.Shape.(scene.Polygon)
	if len(poly.Points) != 8 {
		t.Fatalf("got %d points, want 8", len(poly.Points))
	}
	if poly.Points[5] != frame.Point2D(8, 2) {
		t.Errorf("point 5 = %v, want (8, 2)", poly.Points[5])
	}
	if len(poly.Paths) != 2 || len(poly.Paths[1]) != 4 || poly.Paths[1][0] != 4 {
		t.Errorf("paths = %v", poly.Paths)
	}
	if poly.Convexity != 4 {
		t.Errorf("convexity = %d, want 4", poly.Convexity)
	}
}

func TestText(t *testing.T) {
	s := mustEvaluate(t, `(emit (linear-extrude (text "hi" :font "Mono" :size 7) 1 :name "label"))`)
	txt := lookup(t, s, "label").Shape.(scene.Extrusion).Profile.Shape.(scene.Text)
	want := scene.Text{Text: "hi", Font: "Mono", Size: 7, Spacing: 1}
	if txt != want {
		t.Errorf("text = %+v, want %+v", txt, want)
	}
}

func TestProfileBooleans(t *testing.T) {
	s := mustEvaluate(t, `(emit (linear-extrude (difference (square 10) (circle 2) :name "plate") 1 :name "x"))`)
	comp, ok := lookup(t, s, "x").Shape.(scene.Extrusion).Profile.Shape.(scene.Composite2D)
	if !ok || comp.Op != scene.OpDifference || len(comp.Children) != 2 {
		t.Errorf("profile = %#v, want a two-child 2D difference", comp)
	}
}

func TestMixedBooleanFails(t *testing.T) {
	evalErrors(t, `(union (square 1) (cube 1))`)
}

func TestEmitProfileFails(t *testing.T) {
	msg := evalErrors(t, `(emit (square 1))`)
	if !strings.Contains(msg, "extruded") {
		t.Errorf("unexpected message: %s", msg)
	}
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

func TestTransformsChain(t *testing.T) {
	source := `
(def b (cube 1 1 1 :name "b"))
(rotate (translate b 1 2 3) 0 0 90)
(emit b)
`
	s := mustEvaluate(t, source)
	want := frame.Identity3D()
	want.Translate(1, 2, 3).RotateZ(90)
	if got := *lookup(t, s, "b").RefSys(); !got.ApproxEqual(want, tol) {
		t.Errorf("frame =\n%v\nwant\n%v", got, want)
	}
}

func TestRelativeTransformsActInParentFrame(t *testing.T) {
	source := `
(def a (cube 1 1 1 :name "a"))
(rotate a 0 0 90)
(translate a 5 0 0)
(def b (cube 1 1 1 :name "b"))
(rotate b 0 0 90)
(rel-translate b 5 0 0)
(emit a b)
`
	s := mustEvaluate(t, source)
	ax, ay, _ := lookup(t, s, "a").RefSys().GetTranslate()
	bx, by, _ := lookup(t, s, "b").RefSys().GetTranslate()
	if math.Abs(ax) > tol || math.Abs(ay-5) > tol {
		t.Errorf("absolute translate after rotate = (%g, %g), want (0, 5)", ax, ay)
	}
	if math.Abs(bx-5) > tol || math.Abs(by) > tol {
		t.Errorf("relative translate after rotate = (%g, %g), want (5, 0)", bx, by)
	}
}

func TestScaleUniformAndProfile(t *testing.T) {
	source := `
(def b (cube 1 1 1 :name "b"))
(scale b 2)
(def p (square 1 :name "p"))
(rotate p 30)
(scale p 2 3)
(emit b (linear-extrude p 1 :name "e"))
`
	s := mustEvaluate(t, source)
	sx, sy, sz := lookup(t, s, "b").RefSys().GetScale()
	if sx != 2 || sy != 2 || sz != 2 {
		t.Errorf("scale = (%g, %g, %g), want 2s", sx, sy, sz)
	}
	p := lookup(t, s, "e").Shape.(scene.Extrusion).Profile
	want := frame.Identity2D()
	want.Rotate(30).Scale(2, 3)
	if !p.RefSys().ApproxEqual(want, tol) {
		t.Errorf("profile frame =\n%v\nwant\n%v", *p.RefSys(), want)
	}
}

func TestTransformBadTarget(t *testing.T) {
	evalErrors(t, `(translate 5 1 2 3)`)
}

func TestTransformBuiltinDirect(t *testing.T) {
	o := scene.NewCube("c", 1, 1, 1)
	fn := transformBuiltin("rel-translate", kindTranslate, true)
	got, err := fn(nil, "rel_translate", []zygo.Sexp{
		&sexpObject{obj: o}, &zygo.SexpInt{Val: 1}, &zygo.SexpFloat{Val: 2.5}, &zygo.SexpInt{Val: -3},
	})
	if err != nil {
		t.Fatalf("rel-translate: %v", err)
	}
	if got.(*sexpObject).obj != o {
		t.Error("transform should return its target")
	}
	x, y, z := o.RefSys().GetTranslate()
	if x != 1 || y != 2.5 || z != -3 {
		t.Errorf("translate = (%g, %g, %g), want (1, 2.5, -3)", x, y, z)
	}

	if _, err := fn(nil, "rel_translate", []zygo.Sexp{&sexpObject{obj: o}, &zygo.SexpInt{Val: 1}}); err == nil {
		t.Error("expected an arity error")
	}
}

// ---------------------------------------------------------------------------
// Decomposition
// ---------------------------------------------------------------------------

func listFloats(t *testing.T, s zygo.Sexp) []float64 {
	t.Helper()
	items, err := sexpListToSlice(s)
	if err != nil {
		t.Fatalf("expected list: %v", err)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		if out[i], err = toFloat64(item); err != nil {
			t.Fatalf("element %d: %v", i, err)
		}
	}
	return out
}

func TestDecomposeBuiltins(t *testing.T) {
	o := scene.NewCube("c", 1, 1, 1)
	o.RefSys().Translate(4, 5, 6).RotateX(30).Scale(2, 3, 4)
	target := []zygo.Sexp{&sexpObject{obj: o}}

	tests := []struct {
		name string
		fn   builtinFunc
		want []float64
	}{
		{"get-translate", decomposeBuiltin("get-translate", translate3, translate2), []float64{4, 5, 6}},
		{"get-scale", decomposeBuiltin("get-scale", scale3, scale2), []float64{2, 3, 4}},
		{"get-rotate", decomposeBuiltin("get-rotate", rotate3, rotate2), []float64{30, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.fn(nil, tt.name, target)
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			got := listFloats(t, res)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-6 {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestDecomposeProfileRotation(t *testing.T) {
	p := scene.NewSquare("p", 1, 1)
	p.RefSys().Rotate(25)
	res, err := decomposeBuiltin("get-rotate", rotate3, rotate2)(nil, "get_rotate", []zygo.Sexp{&sexpProfile{obj: p}})
	if err != nil {
		t.Fatalf("get-rotate: %v", err)
	}
	got := listFloats(t, res)
	if len(got) != 1 || math.Abs(got[0]-25) > 1e-6 {
		t.Errorf("got %v, want [25]", got)
	}
}

func TestDecomposeAnchorWorld(t *testing.T) {
	o := scene.NewCube("c", 1, 1, 1)
	o.RefSys().TranslateX(10)
	o.CreateAnchor("tip").RefSys().TranslateZ(2)
	res, err := decomposeBuiltin("get-translate", translate3, translate2)(nil, "get_translate",
		[]zygo.Sexp{&sexpAnchor{h: o.Anchor("tip")}})
	if err != nil {
		t.Fatalf("get-translate: %v", err)
	}
	got := listFloats(t, res)
	if got[0] != 10 || got[1] != 0 || got[2] != 2 {
		t.Errorf("anchor world translation = %v, want [10 0 2]", got)
	}
}

func TestGetTranslateFromScript(t *testing.T) {
	source := `
(def b (cube 1 1 1 :name "b"))
(translate b 4 5 6)
(def pos (get-translate b))
(emit b)
`
	mustEvaluate(t, source)
}

// ---------------------------------------------------------------------------
// Anchors and snapping
// ---------------------------------------------------------------------------

func TestSnap(t *testing.T) {
	source := `
(def base (cube 10 10 4 :name "base"))
(translate (create-anchor base "top") 0 0 2)
(def peg (cylinder 6 1.5 :name "peg"))
(create-anchor peg "foot")
(snap (anchor peg "foot") (anchor base "top"))
(emit (union base peg :name "assembly"))
`
	s := mustEvaluate(t, source)
	peg := lookup(t, s, "peg")
	if z := peg.RefSys().GetTranslateZ(); math.Abs(z-2) > tol {
		t.Errorf("peg z = %g, want 2", z)
	}
	if *lookup(t, s, "base").RefSys() != frame.Identity3D() {
		t.Error("snap must not move the parent")
	}
	asm := lookup(t, s, "assembly")
	if _, err := asm.Anchors().Get("peg::foot"); err != nil {
		t.Errorf("composite should carry child anchors: %v", err)
	}
}

func TestSnapAnchorTransformAfterCreate(t *testing.T) {
	source := `
(def a (cube 2 2 2 :name "a"))
(def side (create-anchor a "side"))
(translate side 1 0 0)
(rotate side 0 30 0)
(def b (cube 2 2 2 :name "b"))
(create-anchor b "back")
(snap (anchor b "back") side)
(emit a b)
`
	s := mustEvaluate(t, source)
	x, _, _ := lookup(t, s, "b").RefSys().GetTranslate()
	if math.Abs(x-1) > tol {
		t.Errorf("b x = %g, want 1", x)
	}
	if ry := lookup(t, s, "b").RefSys().GetRotateY(); math.Abs(ry-30) > 1e-6 {
		t.Errorf("b rotate y = %g, want 30", ry)
	}
}

func TestSnapMissingAnchorReportsPair(t *testing.T) {
	source := `
(def base (cube 10 10 4 :name "base"))
(def peg (cylinder 6 1.5 :name "peg"))
(create-anchor peg "foot")
(snap (anchor peg "foot") (anchor base "nope"))
(emit peg)
`
	msg := evalErrors(t, source)
	for _, want := range []string{"peg.foot", "base.nope", "anchor not found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %q", msg, want)
		}
	}
}

func TestSnapDimensionMismatch(t *testing.T) {
	source := `
(def p (square 1 :name "p"))
(create-anchor p "a")
(def c (cube 1 :name "c"))
(create-anchor c "b")
(snap (anchor p "a") (anchor c "b"))
`
	evalErrors(t, source)
}

func TestSnapProfiles(t *testing.T) {
	source := `
(def a (square 4 :name "a"))
(translate (create-anchor a "edge") 2 0)
(def b (circle 1 :name "b"))
(create-anchor b "centre")
(snap (anchor b "centre") (anchor a "edge"))
(emit (linear-extrude (union a b :name "u") 1 :name "e"))
`
	s := mustEvaluate(t, source)
	u := lookup(t, s, "e").Shape.(scene.Extrusion).Profile.Shape.(scene.Composite2D)
	x, _ := u.Children[1].RefSys().GetTranslate()
	if math.Abs(x-2) > tol {
		t.Errorf("circle x = %g, want 2", x)
	}
}

// ---------------------------------------------------------------------------
// Appearance
// ---------------------------------------------------------------------------

func TestAppearanceBuiltins(t *testing.T) {
	source := `
(def a (sphere 1 :name "a"))
(colour a "red")
(set-fn a 64)
(show-anchors a)
(def b (cube 1 :name "b"))
(colour b 1 0 0.5 0.25)
(modifier b :debug)
(show-origin b)
(emit a b)
`
	s := mustEvaluate(t, source)
	a := lookup(t, s, "a")
	if name, ok := a.Colour.Named(); !ok || name != "red" {
		t.Errorf("colour = %v, want red", a.Colour)
	}
	if a.Shape.(scene.Sphere).Res.Fn != 64 {
		t.Errorf("fn = %d, want 64", a.Shape.(scene.Sphere).Res.Fn)
	}
	if a.Marker != scene.MarkAnchors {
		t.Errorf("marker = %v, want MarkAnchors", a.Marker)
	}

	b := lookup(t, s, "b")
	if rgba, ok := b.Colour.RGBA(); !ok || rgba != [4]float64{1, 0, 0.5, 0.25} {
		t.Errorf("colour = %v, want rgba(1, 0, 0.5, 0.25)", b.Colour)
	}
	if b.Modifier != scene.ModDebug {
		t.Errorf("modifier = %v, want ModDebug", b.Modifier)
	}
	if b.Marker != scene.MarkOrigin {
		t.Errorf("marker = %v, want MarkOrigin", b.Marker)
	}
}

func TestUnknownModifier(t *testing.T) {
	msg := evalErrors(t, `(modifier (cube 1) :sparkly)`)
	if !strings.Contains(msg, "sparkly") {
		t.Errorf("unexpected message: %s", msg)
	}
}

// ---------------------------------------------------------------------------
// Whole scripts
// ---------------------------------------------------------------------------

func TestFullExample(t *testing.T) {
	source := `
;; a plate with a peg and a cut pipe standing on it
(def plate (cube 40 40 4 :name "plate"))
(translate (create-anchor plate "top") 0 0 2)
(translate (create-anchor plate "corner") 15 15 2)

(def peg (cylinder 10 3 :name "peg"))
(create-anchor peg "foot")
(snap (anchor peg "foot") (anchor plate "top"))

(def tube (pipe 12 5 4 :name "tube"))
(create-anchor tube "foot")
(snap (anchor tube "foot") (anchor plate "corner"))
(colour tube "steelblue")

(def assembly (union plate peg tube :name "assembly"))
(show-anchors assembly)
(emit assembly)
`
	s := mustEvaluate(t, source)
	if s.Len() != 1 {
		t.Fatalf("expected 1 root, got %d", s.Len())
	}
	res := scene.Validate(s)
	if !res.OK() {
		t.Errorf("validation errors: %v", res.Errors)
	}
	tube := lookup(t, s, "tube")
	x, y, z := tube.RefSys().GetTranslate()
	if x != 15 || y != 15 || z != 2 {
		t.Errorf("tube at (%g, %g, %g), want (15, 15, 2)", x, y, z)
	}
}

func TestEmptySourceStillWorks(t *testing.T) {
	s := mustEvaluate(t, "")
	if s.Len() != 0 {
		t.Errorf("expected empty scene, got %d roots", s.Len())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	s := mustEvaluate(t, `(emit (cube (+ 1 2) (* 2 3) 1 :name "c"))`)
	if got, want := lookup(t, s, "c").Shape, (scene.Cube{X: 3, Y: 6, Z: 1}); got != want {
		t.Errorf("shape = %#v, want %#v", got, want)
	}
}

package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/anchorscad/pkg/frame"
)

func hasFinding(list []ValidationError, substr string) bool {
	for _, e := range list {
		if strings.Contains(e.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanScene(t *testing.T) {
	s := New()
	base := NewCube("base", 10, 10, 1)
	base.CreateAnchor("top").RefSys().TranslateZ(0.5)
	s.Add(Union("part", base, NewCylinder("peg", 5, 1, 1)))
	r := Validate(s)
	if !r.OK() || len(r.Warnings) != 0 {
		t.Errorf("errors=%v warnings=%v", r.Errors, r.Warnings)
	}
}

func TestValidateFindings(t *testing.T) {
	flat := NewCube("flat", 1, 0, 1)
	badSphere := NewSphere("ball", -1)
	pin := NewCylinder("pin", 1, 0, 0)

	squashed := NewCube("squashed", 1, 1, 1)
	squashed.CreateAnchor("flat").RefSys().ScaleZ(0)

	pinned := NewCube("pinned", 1, 1, 1)
	pinned.CreateAnchor("a").Rotation.Z = true

	sheared := NewCube("sheared", 1, 1, 1)
	sheared.RefSys().Scale(1, 2, 1).RotateZ(30)

	broken := NewCube("broken", 1, 1, 1)
	broken.RefSys()[0][3] = math.NaN()

	noProfile := NewObject("hollow", Extrusion{Height: 1})
	thin := LinearExtrude("thin", NewPolygon("line", []frame.Vector2D{frame.Point2D(0, 0), frame.Point2D(1, 0)}), 1)

	s := New()
	s.Add(Union("all", flat, badSphere, pin, squashed, pinned, sheared, broken, noProfile, thin, Hull("empty")))
	s.Add(NewCube("flat", 1, 1, 1))
	r := Validate(s)

	errs := []string{
		"all/flat: cube y is 0.0000",
		"all/ball: sphere radius is -1.0000",
		"all/pin: cylinder radii",
		"all/broken: frame is not finite",
		"all/hollow: extrusion has no profile",
		"all/thin/line: polygon has 2 points",
	}
	for _, want := range errs {
		if !hasFinding(r.Errors, want) {
			t.Errorf("missing error %q in %v", want, r.Errors)
		}
	}
	warns := []string{
		`all/squashed: anchor "flat" cannot be snapped`,
		`all/pinned: anchor "a" has constraint flags`,
		"all/sheared: frame is sheared",
		"all/empty: hull has no children",
		`flat: name "flat" already used by all/flat`,
	}
	for _, want := range warns {
		if !hasFinding(r.Warnings, want) {
			t.Errorf("missing warning %q in %v", want, r.Warnings)
		}
	}
	if r.OK() {
		t.Error("result with errors should not be OK")
	}
}

// An anchor only fails when something snaps to it, so a scene that never
// uses a degenerate anchor still renders.
func TestValidateUnusedSingularAnchor(t *testing.T) {
	c := NewCube("c", 1, 1, 1)
	c.CreateAnchor("flat").RefSys().ScaleX(0)
	s := New()
	s.Add(c)
	r := Validate(s)
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if !hasFinding(r.Warnings, `c: anchor "flat" cannot be snapped`) {
		t.Errorf("missing warning in %v", r.Warnings)
	}
}

func TestValidateEmptyScene(t *testing.T) {
	r := Validate(New())
	if !r.OK() || !hasFinding(r.Warnings, "no roots") {
		t.Errorf("got %+v", r)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Path: "a/b", Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] a/b: bad" {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Message: "bad"}
	if got := e.Error(); got != "[error] bad" {
		t.Errorf("Error() = %q", got)
	}
}

package frame

import (
	"errors"
	"testing"
)

func TestMatrix2DInverse(t *testing.T) {
	m := Identity2D()
	m.Translate(3, -4).Rotate(33).Scale(2, 5)
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if !inv.Mul(m).IsIdentity(tol) || !m.Mul(inv).IsIdentity(tol) {
		t.Errorf("inverse law failed:\n%v", inv.Mul(m))
	}

	m.ScaleX(0)
	if _, err := m.Inverse(); !errors.Is(err, ErrSingular) {
		t.Errorf("got %v, want ErrSingular", err)
	}
}

// A uniform scale of 1e-7 has a tiny determinant but healthy pivots; both
// matrix sizes must accept it.
func TestInverseSingularityRuleMatches(t *testing.T) {
	m2 := Scaling2D(1e-7, 1e-7)
	inv2, err := m2.Inverse()
	if err != nil {
		t.Fatalf("3x3 Inverse: %v", err)
	}
	if !inv2.Mul(m2).IsIdentity(tol) {
		t.Errorf("3x3 inverse law failed:\n%v", inv2.Mul(m2))
	}

	m3 := Scaling3D(1e-7, 1e-7, 1e-7)
	inv3, err := m3.Inverse()
	if err != nil {
		t.Fatalf("4x4 Inverse: %v", err)
	}
	if !inv3.Mul(m3).IsIdentity(tol) {
		t.Errorf("4x4 inverse law failed:\n%v", inv3.Mul(m3))
	}

	for _, s := range []float64{0, 1e-13} {
		_, err2 := Scaling2D(s, 1).Inverse()
		_, err3 := Scaling3D(s, 1, 1).Inverse()
		if !errors.Is(err2, ErrSingular) || !errors.Is(err3, ErrSingular) {
			t.Errorf("scale %g: 3x3 err = %v, 4x4 err = %v, want ErrSingular", s, err2, err3)
		}
	}
}

func TestMatrix2DAbsoluteVersusRelative(t *testing.T) {
	abs := Identity2D()
	abs.Rotate(90).TranslateX(1)
	p := abs.Apply(Point2D(0, 0))
	if !approx(p.X(), 0) || !approx(p.Y(), 1) {
		t.Errorf("absolute origin = %v, want [0, 1]", p)
	}

	rel := Identity2D()
	rel.Rotate(90).RelTranslateX(1)
	p = rel.Apply(Point2D(0, 0))
	if !approx(p.X(), 1) || !approx(p.Y(), 0) {
		t.Errorf("relative origin = %v, want [1, 0]", p)
	}
}

func TestMatrix2DDecompose(t *testing.T) {
	m := Identity2D()
	m.Translate(7, 8).Rotate(40).Scale(2, 3)
	x, y := m.GetTranslate()
	if !approx(x, 7) || !approx(y, 8) {
		t.Errorf("translate = (%g, %g)", x, y)
	}
	sx, sy := m.GetScale()
	if !approx(sx, 2) || !approx(sy, 3) {
		t.Errorf("scale = (%g, %g)", sx, sy)
	}
	if got := m.GetRotate(); !approx(got, 40) {
		t.Errorf("GetRotate = %g, want 40", got)
	}

	wide := Identity2D()
	wide.Rotate(135)
	if got := wide.GetRotate(); !approx(got, 45) {
		t.Errorf("GetRotate(135) = %g, want folded 45", got)
	}
	if got := wide.Angle(); !approx(got, 135) {
		t.Errorf("Angle(135) = %g", got)
	}
}

func TestMatrix2DTo3D(t *testing.T) {
	m := Identity2D()
	m.Translate(1, 2).Rotate(30).Scale(2, 1)
	lifted := m.To3D()
	p2 := m.Apply(Point2D(3, 4))
	p3 := lifted.Apply(Point3D(3, 4, 5))
	if !approx(p2.X(), p3.X()) || !approx(p2.Y(), p3.Y()) || !approx(p3.Z(), 5) {
		t.Errorf("lifted %v != planar %v", p3, p2)
	}
	if !approx(lifted.Determinant(), m.Determinant()) {
		t.Error("lifting should preserve the determinant")
	}
}

func TestMatrix2DThen(t *testing.T) {
	a := Rotation2D(90)
	b := Translation2D(1, 0)
	if a.Mul(b).ApproxEqual(b.Mul(a), tol) {
		t.Fatal("2D products should not commute")
	}
	if !a.Then(b).ApproxEqual(b.Mul(a), 0) {
		t.Error("a.Then(b) should equal b.Mul(a)")
	}
}

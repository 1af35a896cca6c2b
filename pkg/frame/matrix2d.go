package frame

import (
	"fmt"
	"math"
	"strings"
)

// Matrix2D is a 3x3 homogeneous transform for planar objects. Rows 0-1 hold
// the 2x2 linear block and the translation column.
type Matrix2D [3][3]float64

// Framed2D is implemented by anything that owns a planar reference frame.
type Framed2D interface {
	RefSys() *Matrix2D
}

// Identity2D returns the 3x3 identity.
func Identity2D() Matrix2D {
	return Matrix2D{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Add returns the elementwise sum m + b.
func (m Matrix2D) Add(b Matrix2D) Matrix2D {
	var r Matrix2D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + b[i][j]
		}
	}
	return r
}

// Sub returns the elementwise difference m - b.
func (m Matrix2D) Sub(b Matrix2D) Matrix2D {
	var r Matrix2D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] - b[i][j]
		}
	}
	return r
}

// MulScalar multiplies every entry by k.
func (m Matrix2D) MulScalar(k float64) Matrix2D {
	var r Matrix2D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = k * m[i][j]
		}
	}
	return r
}

// Mul returns the matrix product m·b: b is applied first, then m.
func (m Matrix2D) Mul(b Matrix2D) Matrix2D {
	var r Matrix2D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*b[0][j] + m[i][1]*b[1][j] + m[i][2]*b[2][j]
		}
	}
	return r
}

// Then returns b·m: m is applied first, then b.
func (m Matrix2D) Then(b Matrix2D) Matrix2D {
	return b.Mul(m)
}

// Apply transforms v.
func (m Matrix2D) Apply(v Vector2D) Vector2D {
	var r Vector2D
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return r
}

// Row returns row i.
func (m Matrix2D) Row(i int) Vector2D {
	return Vector2D{m[i][0], m[i][1], m[i][2]}
}

// Column returns column i.
func (m Matrix2D) Column(i int) Vector2D {
	return Vector2D{m[0][i], m[1][i], m[2][i]}
}

// Transpose returns the transpose of m.
func (m Matrix2D) Transpose() Matrix2D {
	var r Matrix2D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Determinant returns det(m).
func (m Matrix2D) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns m⁻¹ using Gauss-Jordan elimination with partial pivoting,
// under the same pivot rule as Matrix3D.Inverse. A singular matrix yields an
// error wrapping ErrSingular.
func (m Matrix2D) Inverse() (Matrix2D, error) {
	a := m
	inv := Identity2D()

	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < SingularEpsilon || math.IsNaN(a[pivot][col]) {
			return Matrix2D{}, fmt.Errorf("invert 3x3 (column %d): %w", col, ErrSingular)
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := a[col][col]
		for j := 0; j < 3; j++ {
			a[col][j] /= p
			inv[col][j] /= p
		}
		for row := 0; row < 3; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 3; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv, nil
}

// MustInverse is like Inverse but panics on a singular matrix.
func (m Matrix2D) MustInverse() Matrix2D {
	inv, err := m.Inverse()
	if err != nil {
		panic(err)
	}
	return inv
}

// To3D lifts m into a spatial transform acting in the z = const planes.
func (m Matrix2D) To3D() Matrix3D {
	return Matrix3D{
		{m[0][0], m[0][1], 0, m[0][2]},
		{m[1][0], m[1][1], 0, m[1][2]},
		{0, 0, 1, 0},
		{m[2][0], m[2][1], 0, m[2][2]},
	}
}

// ApproxEqual reports whether every entry of m is within tol of b.
func (m Matrix2D) ApproxEqual(b Matrix2D, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether m is the identity within tol.
func (m Matrix2D) IsIdentity(tol float64) bool {
	return m.ApproxEqual(Identity2D(), tol)
}

// IsFinite reports whether no entry is NaN or infinite.
func (m Matrix2D) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

func (m Matrix2D) String() string {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		if i == 0 {
			b.WriteString("[[")
		} else {
			b.WriteString(",\n [")
		}
		for j := 0; j < 3; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%16.10f", m[i][j])
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

// Rotation2D returns a counter-clockwise rotation of deg degrees.
func Rotation2D(deg float64) Matrix2D {
	s, c := math.Sincos(radians(deg))
	r := Identity2D()
	r[0][0], r[0][1] = c, -s
	r[1][0], r[1][1] = s, c
	return r
}

// Translation2D returns a translation by (x, y).
func Translation2D(x, y float64) Matrix2D {
	t := Identity2D()
	t[0][2], t[1][2] = x, y
	return t
}

// Scaling2D returns a diagonal scale by (x, y).
func Scaling2D(x, y float64) Matrix2D {
	s := Identity2D()
	s[0][0], s[1][1] = x, y
	return s
}

func (m *Matrix2D) post(e Matrix2D) *Matrix2D {
	*m = m.Mul(e)
	return m
}

func (m *Matrix2D) pre(e Matrix2D) *Matrix2D {
	*m = e.Mul(*m)
	return m
}

// Rotate rotates deg degrees about the local origin.
func (m *Matrix2D) Rotate(deg float64) *Matrix2D { return m.post(Rotation2D(deg)) }

// TranslateX moves x along the local x axis.
func (m *Matrix2D) TranslateX(x float64) *Matrix2D { return m.post(Translation2D(x, 0)) }

// TranslateY moves y along the local y axis.
func (m *Matrix2D) TranslateY(y float64) *Matrix2D { return m.post(Translation2D(0, y)) }

// Translate applies a single combined translation.
func (m *Matrix2D) Translate(x, y float64) *Matrix2D { return m.post(Translation2D(x, y)) }

// ScaleX scales the local x axis by x.
func (m *Matrix2D) ScaleX(x float64) *Matrix2D { return m.post(Scaling2D(x, 1)) }

// ScaleY scales the local y axis by y.
func (m *Matrix2D) ScaleY(y float64) *Matrix2D { return m.post(Scaling2D(1, y)) }

// Scale applies a single combined diagonal scale.
func (m *Matrix2D) Scale(x, y float64) *Matrix2D { return m.post(Scaling2D(x, y)) }

// RelRotate rotates deg degrees about the outer origin.
func (m *Matrix2D) RelRotate(deg float64) *Matrix2D { return m.pre(Rotation2D(deg)) }

// RelTranslateX moves x along the outer x axis.
func (m *Matrix2D) RelTranslateX(x float64) *Matrix2D { return m.pre(Translation2D(x, 0)) }

// RelTranslateY moves y along the outer y axis.
func (m *Matrix2D) RelTranslateY(y float64) *Matrix2D { return m.pre(Translation2D(0, y)) }

// RelTranslate applies a single combined translation in the outer frame.
func (m *Matrix2D) RelTranslate(x, y float64) *Matrix2D { return m.pre(Translation2D(x, y)) }

// RelScaleX scales along the outer x axis by x.
func (m *Matrix2D) RelScaleX(x float64) *Matrix2D { return m.pre(Scaling2D(x, 1)) }

// RelScaleY scales along the outer y axis by y.
func (m *Matrix2D) RelScaleY(y float64) *Matrix2D { return m.pre(Scaling2D(1, y)) }

// RelScale applies a single combined diagonal scale in the outer frame.
func (m *Matrix2D) RelScale(x, y float64) *Matrix2D { return m.pre(Scaling2D(x, y)) }

// ---------------------------------------------------------------------------
// Decomposition
// ---------------------------------------------------------------------------

// GetTranslate returns the translation column.
func (m Matrix2D) GetTranslate() (x, y float64) { return m[0][2], m[1][2] }

// GetScale returns the lengths of the two linear columns.
func (m Matrix2D) GetScale() (x, y float64) {
	return m.Column(0).Length(), m.Column(1).Length()
}

// GetRotate recovers the rotation from sin = m[1][0] / scaleX. Like its 3D
// counterparts it is exact only within (-90°, 90°).
func (m Matrix2D) GetRotate() float64 {
	sx, _ := m.GetScale()
	return asinDegrees(m[1][0], sx)
}

// Angle recovers the rotation with atan2, valid over the full circle.
func (m Matrix2D) Angle() float64 {
	return degrees(math.Atan2(m[1][0], m[0][0]))
}

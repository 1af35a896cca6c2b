package frame

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// SingularEpsilon is the pivot magnitude below which a matrix is treated as
// singular.
const SingularEpsilon = 1e-12

// ErrSingular is returned when inverting a matrix with a (near) zero determinant.
var ErrSingular = errors.New("matrix is singular")

// Matrix3D is a 4x4 homogeneous transform for solids. Rows 0-2 hold the
// linear block and the translation column; row 3 is [0 0 0 1] for every
// matrix produced by the builders.
type Matrix3D [4][4]float64

// Framed3D is implemented by anything that owns a spatial reference frame.
// The returned pointer gives callers the full builder vocabulary.
type Framed3D interface {
	RefSys() *Matrix3D
}

// Identity3D returns the 4x4 identity.
func Identity3D() Matrix3D {
	return Matrix3D{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Add returns the elementwise sum m + b.
func (m Matrix3D) Add(b Matrix3D) Matrix3D {
	var r Matrix3D
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][j] + b[i][j]
		}
	}
	return r
}

// Sub returns the elementwise difference m - b.
func (m Matrix3D) Sub(b Matrix3D) Matrix3D {
	var r Matrix3D
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][j] - b[i][j]
		}
	}
	return r
}

// MulScalar multiplies every entry by k.
func (m Matrix3D) MulScalar(k float64) Matrix3D {
	var r Matrix3D
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = k * m[i][j]
		}
	}
	return r
}

// Mul returns the matrix product m·b: b is applied first, then m.
func (m Matrix3D) Mul(b Matrix3D) Matrix3D {
	var r Matrix3D
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * b[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Then returns b·m: m is applied first, then b.
func (m Matrix3D) Then(b Matrix3D) Matrix3D {
	return b.Mul(m)
}

// Apply transforms v. Points pick up the translation, directions do not.
func (m Matrix3D) Apply(v Vector3D) Vector3D {
	var r Vector3D
	for i := 0; i < 4; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2] + m[i][3]*v[3]
	}
	return r
}

// Row returns row i.
func (m Matrix3D) Row(i int) Vector3D {
	return Vector3D{m[i][0], m[i][1], m[i][2], m[i][3]}
}

// Column returns column i.
func (m Matrix3D) Column(i int) Vector3D {
	return Vector3D{m[0][i], m[1][i], m[2][i], m[3][i]}
}

// Transpose returns the transpose of m.
func (m Matrix3D) Transpose() Matrix3D {
	var r Matrix3D
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Determinant returns det(m) by cofactor expansion along the first row.
func (m Matrix3D) Determinant() float64 {
	var det float64
	sign := 1.0
	for c := 0; c < 4; c++ {
		det += sign * m[0][c] * m.minor(0, c)
		sign = -sign
	}
	return det
}

// minor returns the determinant of the 3x3 matrix left after removing row r
// and column c.
func (m Matrix3D) minor(r, c int) float64 {
	var sub [3][3]float64
	si := 0
	for i := 0; i < 4; i++ {
		if i == r {
			continue
		}
		sj := 0
		for j := 0; j < 4; j++ {
			if j == c {
				continue
			}
			sub[si][sj] = m[i][j]
			sj++
		}
		si++
	}
	return Matrix2D(sub).Determinant()
}

// Inverse returns m⁻¹ using Gauss-Jordan elimination with partial pivoting.
// A singular matrix yields an error wrapping ErrSingular.
func (m Matrix3D) Inverse() (Matrix3D, error) {
	a := m
	inv := Identity3D()

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < SingularEpsilon || math.IsNaN(a[pivot][col]) {
			return Matrix3D{}, fmt.Errorf("invert 4x4 (column %d): %w", col, ErrSingular)
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] /= p
			inv[col][j] /= p
		}
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv, nil
}

// MustInverse is like Inverse but panics on a singular matrix. Use it only on
// frames the caller built from non-zero scales.
func (m Matrix3D) MustInverse() Matrix3D {
	inv, err := m.Inverse()
	if err != nil {
		panic(err)
	}
	return inv
}

// ApproxEqual reports whether every entry of m is within tol of b.
func (m Matrix3D) ApproxEqual(b Matrix3D, tol float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(m[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether m is the identity within tol.
func (m Matrix3D) IsIdentity(tol float64) bool {
	return m.ApproxEqual(Identity3D(), tol)
}

// IsFinite reports whether no entry is NaN or infinite.
func (m Matrix3D) IsFinite() bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// String renders m as nested bracketed rows for debug traces.
func (m Matrix3D) String() string {
	return m.Indent(0)
}

// Indent renders m like String with every line prefixed by n tabs.
func (m Matrix3D) Indent(n int) string {
	tabs := strings.Repeat("\t", n)
	var b strings.Builder
	for i := 0; i < 4; i++ {
		if i == 0 {
			b.WriteString(tabs + "[[")
		} else {
			b.WriteString(",\n" + tabs + " [")
		}
		for j := 0; j < 4; j++ {
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

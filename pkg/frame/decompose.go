package frame

import "math"

// The Get* routines assume the linear block is a rotation times a diagonal,
// non-negative scale. With shear present they return plausible but wrong
// numbers; HasShear detects that case.

func (m Matrix3D) GetTranslateX() float64 { return m[0][3] }
func (m Matrix3D) GetTranslateY() float64 { return m[1][3] }
func (m Matrix3D) GetTranslateZ() float64 { return m[2][3] }

// GetTranslate returns the translation column.
func (m Matrix3D) GetTranslate() (x, y, z float64) {
	return m.GetTranslateX(), m.GetTranslateY(), m.GetTranslateZ()
}

func (m Matrix3D) GetScaleX() float64 { return m.Column(0).Length() }
func (m Matrix3D) GetScaleY() float64 { return m.Column(1).Length() }
func (m Matrix3D) GetScaleZ() float64 { return m.Column(2).Length() }

// GetScale returns the lengths of the three linear columns.
func (m Matrix3D) GetScale() (x, y, z float64) {
	return m.GetScaleX(), m.GetScaleY(), m.GetScaleZ()
}

// GetRotateX recovers a rotation about x from sin = m[2][1] / scaleY.
// Exact only for a single rotation within (-90°, 90°); outside that range
// the result folds back (asin(sin θ) = 180° - θ).
func (m Matrix3D) GetRotateX() float64 { return asinDegrees(m[2][1], m.GetScaleY()) }

// GetRotateY recovers a rotation about y from sin = m[0][2] / scaleZ.
func (m Matrix3D) GetRotateY() float64 { return asinDegrees(m[0][2], m.GetScaleZ()) }

// GetRotateZ recovers a rotation about z from sin = m[1][0] / scaleX.
func (m Matrix3D) GetRotateZ() float64 { return asinDegrees(m[1][0], m.GetScaleX()) }

// GetRotate returns GetRotateX, GetRotateY and GetRotateZ.
func (m Matrix3D) GetRotate() (x, y, z float64) {
	return m.GetRotateX(), m.GetRotateY(), m.GetRotateZ()
}

// asinDegrees returns asin(num/scale) in degrees. The argument is clamped to
// [-1, 1] so accumulated rounding cannot push it out of domain. A zero or
// non-finite scale yields NaN: the decomposition is not representable.
func asinDegrees(num, scale float64) float64 {
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) || math.IsNaN(num) {
		return math.NaN()
	}
	return degrees(math.Asin(clamp(num/scale, -1, 1)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// EulerXYZ recovers the angles (degrees) of Rotate(x, y, z) using atan2 over
// the normalised linear block. y is returned in [-90°, 90°], x and z in
// (-180°, 180°]. At y = ±90° (gimbal lock) z is pinned to 0 and the whole
// remaining rotation is reported on x. Any zero scale yields NaNs.
func (m Matrix3D) EulerXYZ() (x, y, z float64) {
	sx, sy, sz := m.GetScale()
	if sx == 0 || sy == 0 || sz == 0 {
		nan := math.NaN()
		return nan, nan, nan
	}
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		r[i][0] = m[i][0] / sx
		r[i][1] = m[i][1] / sy
		r[i][2] = m[i][2] / sz
	}

	sinY := clamp(r[0][2], -1, 1)
	cosY := math.Hypot(r[0][0], r[0][1])
	if cosY < 1e-9 {
		if sinY > 0 {
			return degrees(math.Atan2(r[1][0], r[1][1])), 90, 0
		}
		return degrees(math.Atan2(-r[1][0], r[1][1])), -90, 0
	}
	x = degrees(math.Atan2(-r[1][2], r[2][2]))
	y = degrees(math.Atan2(sinY, cosY))
	z = degrees(math.Atan2(-r[0][1], r[0][0]))
	return x, y, z
}

// HasShear reports whether the linear columns are not mutually orthogonal
// within tol (relative to their lengths).
func (m Matrix3D) HasShear(tol float64) bool {
	cols := [3]Vector3D{
		Direction3D(m[0][0], m[1][0], m[2][0]),
		Direction3D(m[0][1], m[1][1], m[2][1]),
		Direction3D(m[0][2], m[1][2], m[2][2]),
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			li, lj := cols[i].Length(), cols[j].Length()
			if li == 0 || lj == 0 {
				continue
			}
			if math.Abs(cols[i].Dot(cols[j]))/(li*lj) > tol {
				return true
			}
		}
	}
	return false
}

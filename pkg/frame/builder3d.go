package frame

import "math"

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// RotationX returns a rotation of deg degrees about the x axis.
func RotationX(deg float64) Matrix3D {
	s, c := math.Sincos(radians(deg))
	r := Identity3D()
	r[1][1], r[1][2] = c, -s
	r[2][1], r[2][2] = s, c
	return r
}

// RotationY returns a rotation of deg degrees about the y axis.
func RotationY(deg float64) Matrix3D {
	s, c := math.Sincos(radians(deg))
	r := Identity3D()
	r[0][0], r[0][2] = c, s
	r[2][0], r[2][2] = -s, c
	return r
}

// RotationZ returns a rotation of deg degrees about the z axis.
func RotationZ(deg float64) Matrix3D {
	s, c := math.Sincos(radians(deg))
	r := Identity3D()
	r[0][0], r[0][1] = c, -s
	r[1][0], r[1][1] = s, c
	return r
}

// Translation3D returns a translation by (x, y, z).
func Translation3D(x, y, z float64) Matrix3D {
	t := Identity3D()
	t[0][3], t[1][3], t[2][3] = x, y, z
	return t
}

// Scaling3D returns a diagonal scale by (x, y, z).
func Scaling3D(x, y, z float64) Matrix3D {
	s := Identity3D()
	s[0][0], s[1][1], s[2][2] = x, y, z
	return s
}

// post applies e in the local axes of m.
func (m *Matrix3D) post(e Matrix3D) *Matrix3D {
	*m = m.Mul(e)
	return m
}

// pre applies e in the outer frame of m.
func (m *Matrix3D) pre(e Matrix3D) *Matrix3D {
	*m = e.Mul(*m)
	return m
}

// ---------------------------------------------------------------------------
// Absolute builders: M' = M·E
// ---------------------------------------------------------------------------

// RotateX rotates deg degrees about the local x axis.
func (m *Matrix3D) RotateX(deg float64) *Matrix3D { return m.post(RotationX(deg)) }

// RotateY rotates deg degrees about the local y axis.
func (m *Matrix3D) RotateY(deg float64) *Matrix3D { return m.post(RotationY(deg)) }

// RotateZ rotates deg degrees about the local z axis.
func (m *Matrix3D) RotateZ(deg float64) *Matrix3D { return m.post(RotationZ(deg)) }

// Rotate applies RotateX(x), RotateY(y) and RotateZ(z) in that order.
// The order is part of the contract: rotations do not commute.
func (m *Matrix3D) Rotate(x, y, z float64) *Matrix3D {
	return m.RotateX(x).RotateY(y).RotateZ(z)
}

// TranslateX moves x along the local x axis.
func (m *Matrix3D) TranslateX(x float64) *Matrix3D { return m.post(Translation3D(x, 0, 0)) }

// TranslateY moves y along the local y axis.
func (m *Matrix3D) TranslateY(y float64) *Matrix3D { return m.post(Translation3D(0, y, 0)) }

// TranslateZ moves z along the local z axis.
func (m *Matrix3D) TranslateZ(z float64) *Matrix3D { return m.post(Translation3D(0, 0, z)) }

// Translate applies a single combined translation.
func (m *Matrix3D) Translate(x, y, z float64) *Matrix3D {
	return m.post(Translation3D(x, y, z))
}

// ScaleX scales the local x axis by x.
func (m *Matrix3D) ScaleX(x float64) *Matrix3D { return m.post(Scaling3D(x, 1, 1)) }

// ScaleY scales the local y axis by y.
func (m *Matrix3D) ScaleY(y float64) *Matrix3D { return m.post(Scaling3D(1, y, 1)) }

// ScaleZ scales the local z axis by z.
func (m *Matrix3D) ScaleZ(z float64) *Matrix3D { return m.post(Scaling3D(1, 1, z)) }

// Scale applies a single combined diagonal scale.
func (m *Matrix3D) Scale(x, y, z float64) *Matrix3D {
	return m.post(Scaling3D(x, y, z))
}

// ---------------------------------------------------------------------------
// Relative builders: M' = E·M
// ---------------------------------------------------------------------------

// RelRotateX rotates deg degrees about the outer x axis.
func (m *Matrix3D) RelRotateX(deg float64) *Matrix3D { return m.pre(RotationX(deg)) }

// RelRotateY rotates deg degrees about the outer y axis.
func (m *Matrix3D) RelRotateY(deg float64) *Matrix3D { return m.pre(RotationY(deg)) }

// RelRotateZ rotates deg degrees about the outer z axis.
func (m *Matrix3D) RelRotateZ(deg float64) *Matrix3D { return m.pre(RotationZ(deg)) }

// RelRotate applies RelRotateX(x), RelRotateY(y) and RelRotateZ(z) in that order.
func (m *Matrix3D) RelRotate(x, y, z float64) *Matrix3D {
	return m.RelRotateX(x).RelRotateY(y).RelRotateZ(z)
}

// RelTranslateX moves x along the outer x axis.
func (m *Matrix3D) RelTranslateX(x float64) *Matrix3D { return m.pre(Translation3D(x, 0, 0)) }

// RelTranslateY moves y along the outer y axis.
func (m *Matrix3D) RelTranslateY(y float64) *Matrix3D { return m.pre(Translation3D(0, y, 0)) }

// RelTranslateZ moves z along the outer z axis.
func (m *Matrix3D) RelTranslateZ(z float64) *Matrix3D { return m.pre(Translation3D(0, 0, z)) }

// RelTranslate applies a single combined translation in the outer frame.
func (m *Matrix3D) RelTranslate(x, y, z float64) *Matrix3D {
	return m.pre(Translation3D(x, y, z))
}

// RelScaleX scales along the outer x axis by x.
func (m *Matrix3D) RelScaleX(x float64) *Matrix3D { return m.pre(Scaling3D(x, 1, 1)) }

// RelScaleY scales along the outer y axis by y.
func (m *Matrix3D) RelScaleY(y float64) *Matrix3D { return m.pre(Scaling3D(1, y, 1)) }

// RelScaleZ scales along the outer z axis by z.
func (m *Matrix3D) RelScaleZ(z float64) *Matrix3D { return m.pre(Scaling3D(1, 1, z)) }

// RelScale applies a single combined diagonal scale in the outer frame.
func (m *Matrix3D) RelScale(x, y, z float64) *Matrix3D {
	return m.pre(Scaling3D(x, y, z))
}

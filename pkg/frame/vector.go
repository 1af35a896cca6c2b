package frame

import (
	"fmt"
	"math"
)

// Vector2D is a homogeneous planar vector (x, y, w). w is 1 for points and 0
// for directions, which decides whether a translation moves it.
type Vector2D [3]float64

// Vector3D is a homogeneous spatial vector (x, y, z, w).
type Vector3D [4]float64

// Point2D returns the planar point (x, y).
func Point2D(x, y float64) Vector2D { return Vector2D{x, y, 1} }

// Direction2D returns the free planar vector (x, y).
func Direction2D(x, y float64) Vector2D { return Vector2D{x, y, 0} }

// Point3D returns the point (x, y, z).
func Point3D(x, y, z float64) Vector3D { return Vector3D{x, y, z, 1} }

// Direction3D returns the free vector (x, y, z).
func Direction3D(x, y, z float64) Vector3D { return Vector3D{x, y, z, 0} }

func (v Vector2D) X() float64 { return v[0] }
func (v Vector2D) Y() float64 { return v[1] }
func (v Vector2D) W() float64 { return v[2] }

// Add returns v + o.
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// MulScalar returns k*v.
func (v Vector2D) MulScalar(k float64) Vector2D {
	return Vector2D{k * v[0], k * v[1], k * v[2]}
}

// Dot returns the dot product over all three components.
func (v Vector2D) Dot(o Vector2D) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// SquaredLength returns v·v.
func (v Vector2D) SquaredLength() float64 { return v.Dot(v) }

// Length returns the Euclidean norm of v.
func (v Vector2D) Length() float64 { return math.Sqrt(v.SquaredLength()) }

func (v Vector2D) String() string {
	return fmt.Sprintf("[%g, %g]", v[0], v[1])
}

func (v Vector3D) X() float64 { return v[0] }
func (v Vector3D) Y() float64 { return v[1] }
func (v Vector3D) Z() float64 { return v[2] }
func (v Vector3D) W() float64 { return v[3] }

// Add returns v + o.
func (v Vector3D) Add(o Vector3D) Vector3D {
	return Vector3D{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

// Sub returns v - o.
func (v Vector3D) Sub(o Vector3D) Vector3D {
	return Vector3D{v[0] - o[0], v[1] - o[1], v[2] - o[2], v[3] - o[3]}
}

// MulScalar returns k*v.
func (v Vector3D) MulScalar(k float64) Vector3D {
	return Vector3D{k * v[0], k * v[1], k * v[2], k * v[3]}
}

// Dot returns the dot product over all four components.
func (v Vector3D) Dot(o Vector3D) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] + v[3]*o[3]
}

// SquaredLength returns v·v.
func (v Vector3D) SquaredLength() float64 { return v.Dot(v) }

// Length returns the Euclidean norm of v.
func (v Vector3D) Length() float64 { return math.Sqrt(v.SquaredLength()) }

func (v Vector3D) String() string {
	return fmt.Sprintf("[%g, %g, %g]", v[0], v[1], v[2])
}

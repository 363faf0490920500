// Package vecmath provides the single-precision 3D vector used for body
// positions, velocities and accelerations.
//
// Arithmetic uses value receivers and returns new vectors, so a Vec3 can be
// passed around freely without aliasing. [Vec3.Set] is the one in-place
// operation.
package vecmath

import "math"

type Vec3 struct {
	X, Y, Z float32
}

func New(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance between a and b. NaN components
// propagate to the result.
func Distance(a, b Vec3) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	// Conversions round each product to float32 and keep the compiler from
	// fusing multiply-adds, so results match plain single-precision math.
	sum := float32(dx*dx) + float32(dy*dy) + float32(dz*dz)
	return float32(math.Sqrt(float64(sum)))
}

func (v Vec3) Distance(other Vec3) float32 {
	return Distance(v, other)
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{float32(v.X * s), float32(v.Y * s), float32(v.Z * s)}
}

// Set overwrites all three components and returns the receiver for chaining.
func (v *Vec3) Set(x, y, z float32) *Vec3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

func (v Vec3) Norm() float32 {
	return Distance(v, Vec3{})
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) Float64s() [3]float64 {
	return [3]float64{float64(v.X), float64(v.Y), float64(v.Z)}
}

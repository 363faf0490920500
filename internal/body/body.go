// Package body models a point mass moving under Newtonian gravity.
package body

import (
	"github.com/san-kum/gravsim/internal/vecmath"
)

// G is the gravitational constant in N·m²/kg², held in single precision.
const G float32 = 6.67430e-11

type Body struct {
	Position vecmath.Vec3
	Velocity vecmath.Vec3
	Mass     float32
}

// New places a body at rest at (x, y, z). Mass is not validated.
func New(x, y, z, mass float32) Body {
	return Body{
		Position: vecmath.New(x, y, z),
		Mass:     mass,
	}
}

// GravitationalAcceleration returns the acceleration b experiences due to
// other. The vector points from b toward other with magnitude G·m/d².
//
// Coincident positions divide by zero and yield non-finite components.
func (b Body) GravitationalAcceleration(other Body) vecmath.Vec3 {
	r := other.Position.Sub(b.Position)
	d := vecmath.Distance(b.Position, other.Position)
	rCubed := float32(d*d) * d
	scalar := float32(G*other.Mass) / rCubed
	return r.Scale(scalar)
}

// Update advances b by one semi-implicit Euler step: velocity first from
// acc, then position from the new velocity.
func (b *Body) Update(acc vecmath.Vec3, dt float32) {
	b.Velocity = b.Velocity.Add(acc.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

func (b Body) KineticEnergy() float64 {
	v := float64(b.Velocity.Norm())
	return 0.5 * float64(b.Mass) * v * v
}

func (b Body) Momentum() vecmath.Vec3 {
	return b.Velocity.Scale(b.Mass)
}

package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/sim"
)

// TotalEnergy returns kinetic plus gravitational potential energy of the
// pair, in float64 since the product of the masses overflows float32.
func TotalEnergy(bodies [2]body.Body) float64 {
	a, b := bodies[0], bodies[1]
	ke := a.KineticEnergy() + b.KineticEnergy()
	d := float64(a.Position.Distance(b.Position))
	pe := -float64(body.G) * float64(a.Mass) * float64(b.Mass) / d
	return ke + pe
}

type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Snapshot) {
	energy := TotalEnergy(s.Bodies)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}
	e.totalEnergy += energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation from the energy of the
// first observed state.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s sim.Snapshot) {
	energy := TotalEnergy(s.Bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		// math.Max keeps NaN, so a degenerate run reports NaN drift
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

// MomentumDrift reports the largest magnitude of total linear momentum seen,
// in kg·m/s. The pair starts at rest, so any nonzero value is rounding error.
type MomentumDrift struct {
	name string
	max  float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s sim.Snapshot) {
	pa := s.Bodies[0].Momentum().Float64s()
	pb := s.Bodies[1].Momentum().Float64s()

	sum := 0.0
	for i := range pa {
		p := pa[i] + pb[i]
		sum += p * p
	}
	m.max = math.Max(m.max, math.Sqrt(sum))
}

func (m *MomentumDrift) Value() float64 { return m.max }
func (m *MomentumDrift) Reset()         { m.max = 0 }

// MinSeparation is the closest approach of the two bodies.
type MinSeparation struct {
	name    string
	min     float64
	samples int
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation"}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(s sim.Snapshot) {
	d := float64(s.Separation())
	if m.samples == 0 || d < m.min {
		m.min = d
	}
	m.samples++
}

func (m *MinSeparation) Value() float64 { return m.min }

func (m *MinSeparation) Reset() {
	m.min = 0
	m.samples = 0
}

package metrics

import (
	"github.com/san-kum/gravsim/internal/sim"
)

// Stability is the fraction of observed states whose positions and
// velocities are finite and whose separation stays within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap sim.Snapshot) {
	s.samples++
	for _, b := range snap.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			s.violations++
			return
		}
	}
	if float64(snap.Separation()) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Default returns the metrics attached to every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewMinSeparation(),
		NewStability(1e15),
	}
}

package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/body"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances both bodies by dt. Both accelerations are taken from the
// positions at the start of the step; neither body moves until both are known.
func Step(bodies *[2]body.Body, dt float32) {
	accA := bodies[0].GravitationalAcceleration(bodies[1])
	accB := bodies[1].GravitationalAcceleration(bodies[0])

	bodies[0].Update(accA, dt)
	bodies[1].Update(accB, dt)
}

// Run integrates cfg.Steps steps, notifying observers every cfg.ReportEvery
// steps and metrics on every step. Observers that implement Flush() error are
// flushed before Run returns.
func (s *Simulator) Run(ctx context.Context, cfg Config) (res *Result, err error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	defer func() {
		if ferr := s.flush(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	bodies := [2]body.Body{cfg.Bodies[0].Body(), cfg.Bodies[1].Body()}
	var t float32

	res = &Result{
		Initial: bodies,
		Final:   bodies,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(Snapshot{Bodies: bodies})
	}

	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(res)
			return res, ctx.Err()
		default:
		}

		t += cfg.Dt
		Step(&bodies, cfg.Dt)

		res.StepsTaken = i
		res.Time = t
		res.Final = bodies

		snap := Snapshot{Step: i, Time: t, Bodies: bodies}

		if cfg.ValidateState && !finite(bodies) {
			s.collect(res)
			return res, &SimError{Step: i, Time: t, Message: "invalid state (NaN/Inf)", Wrapped: ErrDegenerate}
		}

		for _, m := range s.metrics {
			m.Observe(snap)
		}

		if i%cfg.ReportEvery == 0 {
			for _, obs := range s.observers {
				if err := obs.OnStep(snap); err != nil {
					s.collect(res)
					return res, fmt.Errorf("report step %d: %w", i, err)
				}
			}
		}
	}

	s.collect(res)
	return res, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.ReportEvery < 1 {
		return fmt.Errorf("%w: report interval must be at least 1, got %d", ErrInvalidConfig, cfg.ReportEvery)
	}
	return nil
}

func (s *Simulator) collect(res *Result) {
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) flush() error {
	for _, obs := range s.observers {
		if f, ok := obs.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func finite(bodies [2]body.Body) bool {
	for _, b := range bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	return true
}

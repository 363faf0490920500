package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// Params that can be varied over a base configuration.
const (
	ParamDt    = "dt"
	ParamMass1 = "mass1"
	ParamMass2 = "mass2"
	ParamSteps = "steps"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		switch p {
		case ParamDt, ParamMass1, ParamMass2, ParamSteps:
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base with every combination of the parameter ranges and
// returns all trials in grid order plus the index of the trial with the
// smallest finite metric value (-1 if none).
func (g *GridSearch) Search(ctx context.Context, base sim.Config, metricName string) ([]Trial, int, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, base, metricName, &trials); err != nil {
		return trials, best(trials), err
	}
	return trials, best(trials), nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base sim.Config,
	metricName string,
	trials *[]Trial,
) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		trial := Trial{Params: params, Value: math.NaN()}

		s := sim.New()
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, apply(base, params))
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			trial.Err = err
		default:
			v, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("optim: unknown metric %q", metricName)
			}
			trial.Value = v
		}
		*trials = append(*trials, trial)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, base, metricName, trials); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

func apply(cfg sim.Config, params map[string]float64) sim.Config {
	for name, v := range params {
		switch name {
		case ParamDt:
			cfg.Dt = float32(v)
		case ParamMass1:
			cfg.Bodies[0].Mass = float32(v)
		case ParamMass2:
			cfg.Bodies[1].Mass = float32(v)
		case ParamSteps:
			cfg.Steps = int(v)
		}
	}
	return cfg
}

func best(trials []Trial) int {
	idx := -1
	for i, t := range trials {
		if t.Err != nil || math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			continue
		}
		if idx < 0 || t.Value < trials[idx].Value {
			idx = i
		}
	}
	return idx
}

package sim

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/vecmath"
)

const (
	DefaultDt          float32 = 0.1
	DefaultSteps               = 864000
	DefaultReportEvery         = 1
)

// BodySpec is the initial condition of one body. Bodies always start at rest.
type BodySpec struct {
	Position vecmath.Vec3
	Mass     float32
}

func (b BodySpec) Body() body.Body {
	return body.New(b.Position.X, b.Position.Y, b.Position.Z, b.Mass)
}

type Config struct {
	Bodies      [2]BodySpec
	Dt          float32
	Steps       int
	ReportEvery int
	// ValidateState stops the run with ErrDegenerate once a position or
	// velocity becomes NaN or infinite. Off by default, in which case
	// non-finite values propagate through the remaining steps.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Bodies: [2]BodySpec{
			{Position: vecmath.New(0, 0, 0), Mass: 5.1e24},
			{Position: vecmath.New(10, 10, 10), Mass: 15.1e24},
		},
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		ReportEvery: DefaultReportEvery,
	}
}

// Snapshot is the state of both bodies after Step iterations.
type Snapshot struct {
	Step   int
	Time   float32
	Bodies [2]body.Body
}

func (s Snapshot) Separation() float32 {
	return vecmath.Distance(s.Bodies[0].Position, s.Bodies[1].Position)
}

type Observer interface {
	OnStep(s Snapshot) error
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Result struct {
	StepsTaken int
	Time       float32
	Initial    [2]body.Body
	Final      [2]body.Body
	Metrics    map[string]float64
}

package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a time step, step count or report interval
	// the driver cannot run with.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrDegenerate indicates a body state became NaN or infinite, typically
	// because both bodies occupied the same position.
	ErrDegenerate = errors.New("sim: degenerate state (NaN or Inf detected)")
)

// SimError wraps an error with the step and time it occurred at.
type SimError struct {
	Step    int
	Time    float32
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}

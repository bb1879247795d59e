package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a run configuration that cannot be executed.
var ErrInvalidConfig = errors.New("sim: invalid configuration")

// SimulationError wraps a failed step with its position in the run.
type SimulationError struct {
	Step    int
	Time    float64
	H       float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d at t=%g (h=%g): %v", e.Step, e.Time, e.H, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

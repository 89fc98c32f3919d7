package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a scenario that must not be simulated:
	// non-positive dt or mass, or a train that does not start short of the ball.
	ErrInvalidConfig = errors.New("dynamo: invalid scenario configuration")

	// ErrNumericDegenerate indicates a configuration or state for which the
	// force model is undefined (cos(angle) = 0, NaN or Inf in the state).
	ErrNumericDegenerate = errors.New("dynamo: numerically degenerate scenario")

	// ErrSinkFailure indicates the dataset could not be persisted.
	ErrSinkFailure = errors.New("dynamo: dataset sink failure")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

package quad

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrBadParams indicates a physically invalid configuration value,
	// detected at construction time.
	ErrBadParams = errors.New("quad: invalid parameters")

	// ErrDiverged indicates NaN or Inf appeared in the integrated state.
	ErrDiverged = errors.New("quad: state diverged (NaN or Inf)")

	// ErrBadCommand indicates a negative or non-finite rotor rate
	// reached a plant.
	ErrBadCommand = errors.New("quad: invalid rotor command")

	// ErrBadConfig indicates an invalid run configuration.
	ErrBadConfig = errors.New("quad: invalid run config")
)

// StepError wraps a failure with the tick it occurred on. Simulation
// failures are fatal: nothing is retried, the run aborts and the caller
// diagnoses from the tick index and time.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

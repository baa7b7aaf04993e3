package geodesic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a non-positive step size or step count.
	ErrInvalidConfig = errors.New("geodesic: invalid run configuration")

	// ErrNonFinite indicates the position or velocity became NaN or Inf.
	ErrNonFinite = errors.New("geodesic: state is not finite")

	ErrUnknownScheme = errors.New("geodesic: unknown integrator scheme")
)

// StepError wraps an error with the step at which it happened.
type StepError struct {
	Step int
	Tau  float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (tau=%g): %v", e.Step, e.Tau, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for fluid model operations.
var (
	// ErrInvalidParameter indicates a model coefficient outside its valid domain.
	ErrInvalidParameter = errors.New("fluid: parameter outside valid domain")

	// ErrInvalidInput indicates a runtime value violating a precondition.
	ErrInvalidInput = errors.New("fluid: input violates precondition")
)

// StepError wraps a component failure with the simulation step that produced it.
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

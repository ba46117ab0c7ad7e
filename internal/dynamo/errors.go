package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a particle mass that is zero, negative or not finite.
	ErrInvalidMass = errors.New("dynamo: particle mass must be positive and finite")

	// ErrInvalidSpring indicates a spring with a non-positive rest length or stiffness.
	ErrInvalidSpring = errors.New("dynamo: invalid spring")

	// ErrIndexOutOfRange indicates a particle index outside the collection.
	ErrIndexOutOfRange = errors.New("dynamo: particle index out of range")

	// ErrNegativeStep indicates a negative integration step.
	ErrNegativeStep = errors.New("dynamo: negative time step")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownIntegrator indicates an integrator name with no implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownPattern indicates an unsupported spring connectivity pattern.
	ErrUnknownPattern = errors.New("dynamo: unknown spring pattern")

	// ErrStopped indicates the simulation was stopped by its owner.
	ErrStopped = errors.New("dynamo: simulation stopped")
)

// SimError wraps an error with simulation context.
type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

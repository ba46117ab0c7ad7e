package integrators

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Euler is semi-implicit Euler: velocity first, then position from the
// updated velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *dynamo.Particle, dt float64) error {
	if dt < 0 {
		return fmt.Errorf("%w: %v", dynamo.ErrNegativeStep, dt)
	}
	p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	return nil
}

package integrators

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Verlet is velocity Verlet with the entry acceleration reused for the
// closing half kick, since forces are only evaluated between steps.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(p *dynamo.Particle, dt float64) error {
	if dt < 0 {
		return fmt.Errorf("%w: %v", dynamo.ErrNegativeStep, dt)
	}
	half := p.Acceleration.Scale(0.5 * dt)
	p.Velocity = p.Velocity.Add(half)
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Velocity = p.Velocity.Add(half)
	return nil
}

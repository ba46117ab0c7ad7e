package dynamo

import (
	"fmt"
	"math"
)

// Particle is a point mass. Acceleration holds force per unit mass for the
// current step only and is cleared before forces are accumulated.
type Particle struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Mass         float64
}

// NewParticle returns a particle with zero acceleration. Mass must be
// strictly positive.
func NewParticle(pos, vel Vec2, mass float64) (Particle, error) {
	p := Particle{Position: pos, Velocity: vel, Mass: mass}
	if err := p.Validate(); err != nil {
		return Particle{}, err
	}
	return p, nil
}

func (p *Particle) Validate() error {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidMass, p.Mass)
	}
	if !p.Position.IsFinite() || !p.Velocity.IsFinite() || !p.Acceleration.IsFinite() {
		return fmt.Errorf("%w: non-finite particle state", ErrParameterBounds)
	}
	return nil
}

func (p *Particle) ResetAcceleration() { p.Acceleration = Vec2{} }

// AddForce converts f to acceleration and accumulates it.
func (p *Particle) AddForce(f Vec2) {
	p.Acceleration = p.Acceleration.Add(f.Scale(1 / p.Mass))
}

func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.LenSq()
}

func (p *Particle) Momentum() Vec2 { return p.Velocity.Scale(p.Mass) }

func (p *Particle) IsFinite() bool {
	return p.Position.IsFinite() && p.Velocity.IsFinite() && p.Acceleration.IsFinite() &&
		!math.IsNaN(p.Mass) && !math.IsInf(p.Mass, 0)
}

// Integrator advances one particle by one fixed step using its current
// acceleration.
type Integrator interface {
	Step(p *Particle, dt float64) error
}

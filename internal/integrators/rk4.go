package integrators

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// RK4 is a four-stage Runge-Kutta step with the acceleration sampled once
// at entry and held across all stages. With no force law evaluated inside
// the step the acceleration slopes are identical, and the scheme reduces
// to exact constant-acceleration kinematics.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(p *dynamo.Particle, dt float64) error {
	if dt < 0 {
		return fmt.Errorf("%w: %v", dynamo.ErrNegativeStep, dt)
	}
	if dt == 0 {
		return nil
	}

	a, v := p.Acceleration, p.Velocity

	k1Vel := a.Scale(dt)
	k1Pos := v.Scale(dt)

	k2Vel := a.Scale(dt)
	k2Pos := v.Add(k1Vel.Scale(0.5)).Scale(dt)

	k3Vel := a.Scale(dt)
	k3Pos := v.Add(k2Vel.Scale(0.5)).Scale(dt)

	k4Vel := a.Scale(dt)
	k4Pos := v.Add(k3Vel).Scale(dt)

	dPos := k1Pos.Add(k2Pos.Scale(2)).Add(k3Pos.Scale(2)).Add(k4Pos).Scale(1.0 / 6.0)
	dVel := k1Vel.Add(k2Vel.Scale(2)).Add(k3Vel.Scale(2)).Add(k4Vel).Scale(1.0 / 6.0)

	p.Position = p.Position.Add(dPos)
	p.Velocity = p.Velocity.Add(dVel)
	return nil
}

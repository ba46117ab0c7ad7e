package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/particlesim/internal/dynamo"
)

func TestNew(t *testing.T) {
	for _, name := range []string{"rk4", "euler", "verlet"} {
		integ, err := New(name)
		if err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if integ == nil {
			t.Errorf("%s: nil integrator", name)
		}
	}

	if _, err := New("rk45"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 3 || names[0] != "euler" || names[1] != "rk4" || names[2] != "verlet" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestVerletMatchesRK4UnderConstantAcceleration(t *testing.T) {
	rk4, verlet := NewRK4(), NewVerlet()
	a := dynamo.Particle{Velocity: dynamo.V(2, 0), Acceleration: dynamo.V(0, -5), Mass: 1}
	b := a

	for i := 0; i < 100; i++ {
		_ = rk4.Step(&a, 0.02)
		_ = verlet.Step(&b, 0.02)
	}

	if math.Abs(a.Position.X-b.Position.X) > 1e-9 || math.Abs(a.Position.Y-b.Position.Y) > 1e-9 {
		t.Errorf("positions diverged: rk4 %v verlet %v", a.Position, b.Position)
	}
	if math.Abs(a.Velocity.Y-b.Velocity.Y) > 1e-9 {
		t.Errorf("velocities diverged: rk4 %v verlet %v", a.Velocity, b.Velocity)
	}
}

func TestEulerOvershootsPosition(t *testing.T) {
	integ := NewEuler()
	p := dynamo.Particle{Acceleration: dynamo.V(1, 0), Mass: 1}

	for i := 0; i < 10; i++ {
		_ = integ.Step(&p, 0.1)
	}

	if math.Abs(p.Velocity.X-1.0) > 1e-12 {
		t.Errorf("expected velocity 1, got %f", p.Velocity.X)
	}
	// exact answer is 0.5; semi-implicit Euler lands on 0.55
	if math.Abs(p.Position.X-0.55) > 1e-12 {
		t.Errorf("expected position 0.55, got %f", p.Position.X)
	}
}

func TestNegativeStepRejected(t *testing.T) {
	for _, name := range Names() {
		integ, _ := New(name)
		p := dynamo.Particle{Mass: 1}
		if err := integ.Step(&p, -1); !errors.Is(err, dynamo.ErrNegativeStep) {
			t.Errorf("%s: expected ErrNegativeStep, got %v", name, err)
		}
	}
}

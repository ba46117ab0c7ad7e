package dynamo

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultWidth            = 1000.0
	DefaultHeight           = 800.0
	DefaultRadius           = 10.0
	DefaultUpdatesPerSecond = 1600
	DefaultRestitution      = 1.0
	DefaultStiffness        = 200.0
	DefaultDamping          = 0.5
	DefaultDrag             = 0.0
	DefaultEpsilon          = 0.01
)

// Params is the immutable configuration of one simulation. It is passed to
// constructors so that independent simulations never share state.
type Params struct {
	Width, Height float64
	Radius        float64
	// Dt is the fixed physics step in seconds.
	Dt          float64
	Restitution float64
	Stiffness   float64
	Damping     float64
	Drag        float64
	Epsilon     float64
	// MaxLag caps the accumulated frame time in seconds. Zero disables the cap.
	MaxLag float64
}

func DefaultParams() Params {
	return Params{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Radius:      DefaultRadius,
		Dt:          1.0 / DefaultUpdatesPerSecond,
		Restitution: DefaultRestitution,
		Stiffness:   DefaultStiffness,
		Damping:     DefaultDamping,
		Drag:        DefaultDrag,
		Epsilon:     DefaultEpsilon,
	}
}

// Step returns Dt rounded to the nearest nanosecond.
func (p Params) Step() time.Duration {
	return time.Duration(math.Round(p.Dt * float64(time.Second)))
}

func (p Params) Validate() error {
	checks := []struct {
		name string
		val  float64
		ok   bool
	}{
		{"width", p.Width, p.Width > 0},
		{"height", p.Height, p.Height > 0},
		{"radius", p.Radius, p.Radius > 0 && 2*p.Radius < math.Min(p.Width, p.Height)},
		{"dt", p.Dt, p.Dt > 0},
		{"restitution", p.Restitution, p.Restitution >= 0 && p.Restitution <= 1},
		{"stiffness", p.Stiffness, p.Stiffness >= 0},
		{"damping", p.Damping, p.Damping >= 0},
		{"drag", p.Drag, p.Drag >= 0},
		{"epsilon", p.Epsilon, p.Epsilon >= 0},
		// a backlog cap below one step would never let a step run
		{"max_lag", p.MaxLag, p.MaxLag == 0 || p.MaxLag >= p.Dt},
	}
	for _, c := range checks {
		if math.IsNaN(c.val) || math.IsInf(c.val, 0) || !c.ok {
			return fmt.Errorf("%w: %s = %v", ErrParameterBounds, c.name, c.val)
		}
	}
	return nil
}

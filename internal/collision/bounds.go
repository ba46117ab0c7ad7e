package collision

import (
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Bounds is the fixed [0, Width] x [0, Height] domain. Particles are kept
// Radius+Epsilon away from every wall.
type Bounds struct {
	Width, Height float64
	Radius        float64
	Epsilon       float64
}

func NewBounds(p dynamo.Params) Bounds {
	return Bounds{Width: p.Width, Height: p.Height, Radius: p.Radius, Epsilon: p.Epsilon}
}

// Reflect clamps p onto any wall it has reached and turns the matching
// velocity component back into the domain. Axes are handled independently.
func (b Bounds) Reflect(p *dynamo.Particle) (hitX, hitY bool) {
	lo := b.Radius + b.Epsilon
	p.Position.X, p.Velocity.X, hitX = reflectAxis(p.Position.X, p.Velocity.X, lo, b.Width-lo)
	p.Position.Y, p.Velocity.Y, hitY = reflectAxis(p.Position.Y, p.Velocity.Y, lo, b.Height-lo)
	return hitX, hitY
}

// ReflectAll reflects every particle and returns the number of wall contacts.
func (b Bounds) ReflectAll(ps []dynamo.Particle) int {
	hits := 0
	for i := range ps {
		hx, hy := b.Reflect(&ps[i])
		if hx {
			hits++
		}
		if hy {
			hits++
		}
	}
	return hits
}

func reflectAxis(pos, vel, lo, hi float64) (float64, float64, bool) {
	switch {
	case pos <= lo:
		return lo, math.Abs(vel), true
	case pos >= hi:
		return hi, -math.Abs(vel), true
	}
	return pos, vel, false
}

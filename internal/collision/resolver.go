// Package collision resolves particle-particle contacts and keeps particles
// inside the rectangular simulation domain.
package collision

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Resolver runs impulse-based elastic collisions between equal-radius
// particles. All particles share one radius.
type Resolver struct {
	radius      float64
	restitution float64
	next        []dynamo.Vec2
}

func NewResolver(radius, restitution float64) (*Resolver, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius = %v", dynamo.ErrParameterBounds, radius)
	}
	if restitution < 0 || restitution > 1 {
		return nil, fmt.Errorf("%w: restitution = %v", dynamo.ErrParameterBounds, restitution)
	}
	return &Resolver{radius: radius, restitution: restitution}, nil
}

func (r *Resolver) Radius() float64 { return r.radius }

// Colliding reports whether the centers are closer than two radii.
// Touching particles do not collide.
func (r *Resolver) Colliding(a, b *dynamo.Particle) bool {
	return a.Position.Sub(b.Position).Len() < 2*r.radius
}

// Exchange returns the post-collision velocities of a and b. ok is false
// when the pair is coincident or already separating, in which case the
// input velocities are returned unchanged.
func (r *Resolver) Exchange(a, b *dynamo.Particle) (va, vb dynamo.Vec2, ok bool) {
	d := a.Position.Sub(b.Position)
	dist := d.Len()
	if dist == 0 {
		return a.Velocity, b.Velocity, false
	}

	// normal points from b to a, so a positive closing speed means separation
	n := d.Scale(1 / dist)
	dot := a.Velocity.Sub(b.Velocity).Dot(n)
	if dot >= 0 {
		return a.Velocity, b.Velocity, false
	}

	impulse := (1 + r.restitution) * dot / (a.Mass + b.Mass)
	va = a.Velocity.Sub(n.Scale(impulse * b.Mass))
	vb = b.Velocity.Add(n.Scale(impulse * a.Mass))
	return va, vb, true
}

// Resolve checks every unordered pair and commits the velocity changes
// after the full scan, so every pair reads pre-pass velocities. A particle
// in several contacts receives the sum of its per-pair changes. It returns
// the number of pairs resolved.
func (r *Resolver) Resolve(ps []dynamo.Particle) int {
	if cap(r.next) < len(ps) {
		r.next = make([]dynamo.Vec2, len(ps))
	}
	r.next = r.next[:len(ps)]
	for i := range ps {
		r.next[i] = ps[i].Velocity
	}

	resolved := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if !r.Colliding(&ps[i], &ps[j]) {
				continue
			}
			vi, vj, ok := r.Exchange(&ps[i], &ps[j])
			if !ok {
				continue
			}
			r.next[i] = r.next[i].Add(vi.Sub(ps[i].Velocity))
			r.next[j] = r.next[j].Add(vj.Sub(ps[j].Velocity))
			resolved++
		}
	}

	if resolved > 0 {
		for i := range ps {
			ps[i].Velocity = r.next[i]
		}
	}
	return resolved
}

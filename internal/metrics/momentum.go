package metrics

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/mesh"
)

// Momentum reports the magnitude of total linear momentum at the last
// observed step. Walls do not conserve it; collisions and springs do.
type Momentum struct {
	name    string
	current dynamo.Vec2
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(t float64, ms *mesh.Mesh) {
	total := dynamo.Vec2{}
	for i := range ms.Particles {
		total = total.Add(ms.Particles[i].Momentum())
	}
	m.current = total
}

func (m *Momentum) Value() float64 {
	return m.current.Len()
}

func (m *Momentum) Reset() {
	m.current = dynamo.Vec2{}
}

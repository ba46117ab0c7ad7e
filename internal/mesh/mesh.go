// Package mesh builds mass-spring meshes and accumulates their spring and
// drag forces.
//
// A [Mesh] is an arena of particles plus springs that refer to particles by
// index. Indices are stable for the lifetime of the mesh: particles are
// never removed once springs reference them.
package mesh

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Pattern selects the spring connectivity of a rectangular mesh.
type Pattern int

const (
	// Grid connects horizontal and vertical neighbours.
	Grid Pattern = iota + 1
	// ZPattern is Grid plus both diagonals of every cell.
	ZPattern
	// XPattern has the two diagonals of every cell only.
	XPattern
)

var patternNames = map[Pattern]string{
	Grid:     "grid",
	ZPattern: "z",
	XPattern: "x",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// ParsePattern accepts the names printed by String, case-insensitively.
func ParsePattern(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range patternNames {
		if s == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want grid, z or x)", dynamo.ErrUnknownPattern, s)
}

// Spring links particles A and B of the owning mesh.
type Spring struct {
	A, B       int
	RestLength float64
	Stiffness  float64
}

// Mesh owns its particles and springs.
type Mesh struct {
	Particles []dynamo.Particle
	Springs   []Spring

	accel []dynamo.Vec2
}

// New validates springs against particles and returns a mesh owning both
// slices.
func New(particles []dynamo.Particle, springs []Spring) (*Mesh, error) {
	for i := range particles {
		if err := particles[i].Validate(); err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
	}
	for k, s := range springs {
		if err := validateSpring(s, len(particles)); err != nil {
			return nil, fmt.Errorf("spring %d: %w", k, err)
		}
	}
	return &Mesh{Particles: particles, Springs: springs}, nil
}

func validateSpring(s Spring, n int) error {
	if s.A < 0 || s.A >= n || s.B < 0 || s.B >= n {
		return fmt.Errorf("%w: (%d,%d) with %d particles", dynamo.ErrIndexOutOfRange, s.A, s.B, n)
	}
	if s.A == s.B {
		return fmt.Errorf("%w: spring endpoints are the same particle %d", dynamo.ErrInvalidSpring, s.A)
	}
	if !(s.RestLength > 0) || math.IsInf(s.RestLength, 0) {
		return fmt.Errorf("%w: rest length %v", dynamo.ErrInvalidSpring, s.RestLength)
	}
	if !(s.Stiffness > 0) || math.IsInf(s.Stiffness, 0) {
		return fmt.Errorf("%w: stiffness %v", dynamo.ErrInvalidSpring, s.Stiffness)
	}
	return nil
}

// Append moves the particles and springs of other into m, offsetting the
// spring indices. other must not be used afterwards.
func (m *Mesh) Append(other *Mesh) {
	offset := len(m.Particles)
	m.Particles = append(m.Particles, other.Particles...)
	for _, s := range other.Springs {
		s.A += offset
		s.B += offset
		m.Springs = append(m.Springs, s)
	}
}

// Length is the current distance between the endpoints of spring k.
func (m *Mesh) Length(k int) float64 {
	s := m.Springs[k]
	return m.Particles[s.B].Position.Sub(m.Particles[s.A].Position).Len()
}

// Tension is the current length minus the rest length of spring k:
// positive when stretched, negative when compressed.
func (m *Mesh) Tension(k int) float64 {
	return m.Length(k) - m.Springs[k].RestLength
}

// PotentialEnergy is the elastic energy stored in all springs.
func (m *Mesh) PotentialEnergy() float64 {
	e := 0.0
	for k, s := range m.Springs {
		x := m.Tension(k)
		e += 0.5 * s.Stiffness * x * x
	}
	return e
}

func (m *Mesh) KineticEnergy() float64 {
	e := 0.0
	for i := range m.Particles {
		e += m.Particles[i].KineticEnergy()
	}
	return e
}

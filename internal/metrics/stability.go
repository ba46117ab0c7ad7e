package metrics

import (
	"github.com/san-kum/particlesim/internal/mesh"
)

// Stability is the fraction of steps in which every particle stayed finite
// and below the speed threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, m *mesh.Mesh) {
	s.samples++
	limit := s.threshold * s.threshold
	for i := range m.Particles {
		p := &m.Particles[i]
		if !p.IsFinite() || p.Velocity.LenSq() > limit {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

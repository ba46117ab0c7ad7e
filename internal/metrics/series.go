package metrics

import "github.com/san-kum/particlesim/internal/mesh"

// Series samples kinetic energy every Every steps for plotting. Its Value
// is the last sample.
type Series struct {
	name    string
	every   int
	count   int
	Times   []float64
	Samples []float64
}

func NewSeries(every int) *Series {
	if every < 1 {
		every = 1
	}
	return &Series{name: "kinetic", every: every}
}

func (s *Series) Name() string { return s.name }

func (s *Series) Observe(t float64, m *mesh.Mesh) {
	if s.count%s.every == 0 {
		s.Times = append(s.Times, t)
		s.Samples = append(s.Samples, m.KineticEnergy())
	}
	s.count++
}

func (s *Series) Value() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return s.Samples[len(s.Samples)-1]
}

func (s *Series) Reset() {
	s.count = 0
	s.Times = s.Times[:0]
	s.Samples = s.Samples[:0]
}

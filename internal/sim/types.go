package sim

import (
	"time"

	"github.com/san-kum/particlesim/internal/mesh"
)

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(t float64, m *mesh.Mesh)
	Value() float64
	Reset()
}

// Observer is notified after every completed step. It must not mutate the
// simulation.
type Observer interface {
	OnStep(s *Simulator)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Simulator)

func (f ObserverFunc) OnStep(s *Simulator) { f(s) }

// Stats counts what happened since the simulator was created.
type Stats struct {
	Steps      int
	Collisions int
	WallHits   int
}

type Result struct {
	Stats
	Time    float64
	Elapsed time.Duration
	Metrics map[string]float64
}

// Clock is the wall-clock source of a Loop.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	t time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

func (c *ManualClock) Now() time.Time { return c.t }

func (c *ManualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

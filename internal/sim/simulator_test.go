package sim_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/mesh"
	"github.com/san-kum/particlesim/internal/sim"
)

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                { return "count" }
func (c *countingMetric) Observe(float64, *mesh.Mesh) { c.count++ }
func (c *countingMetric) Value() float64              { return float64(c.count) }
func (c *countingMetric) Reset()                      { c.count = 0 }

func newSim(params dynamo.Params, ps ...dynamo.Particle) *sim.Simulator {
	m, err := mesh.New(ps, nil)
	Expect(err).NotTo(HaveOccurred())
	s, err := sim.New(params, m, integrators.NewRK4(), sim.WithStateValidation())
	Expect(err).NotTo(HaveOccurred())
	return s
}

func at(x, y, vx, vy, mass float64) dynamo.Particle {
	return dynamo.Particle{Position: dynamo.V(x, y), Velocity: dynamo.V(vx, vy), Mass: mass}
}

var _ = Describe("Simulator", func() {
	var params dynamo.Params

	BeforeEach(func() {
		params = dynamo.DefaultParams()
	})

	Describe("construction", func() {
		It("rejects invalid parameters", func() {
			params.Dt = -0.01
			m, _ := mesh.New(nil, nil)
			_, err := sim.New(params, m, integrators.NewRK4())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects a MaxLag shorter than one step", func() {
			params.MaxLag = 0.0001
			m, _ := mesh.New([]dynamo.Particle{at(500, 400, 0, 0, 1)}, nil)
			_, err := sim.New(params, m, integrators.NewRK4())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("requires a mesh and an integrator", func() {
			_, err := sim.New(params, nil, integrators.NewRK4())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Advance", func() {
		var s *sim.Simulator
		var step time.Duration

		BeforeEach(func() {
			s = newSim(params, at(500, 400, 0, 0, 1))
			step = params.Step()
		})

		It("runs one step per whole step size of elapsed time", func() {
			n, err := s.Advance(10 * step)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(10))
			Expect(s.Steps()).To(Equal(10))
			Expect(s.Time()).To(BeNumerically("~", 10*params.Dt, 1e-12))
		})

		It("carries the remainder into the next frame", func() {
			n, _ := s.Advance(2*step + step/2)
			Expect(n).To(Equal(2))
			Expect(s.Lag()).To(Equal(step / 2))

			n, _ = s.Advance(step / 2)
			Expect(n).To(Equal(1))
			Expect(s.Lag()).To(BeZero())
		})

		It("does nothing for frames shorter than a step", func() {
			n, err := s.Advance(step - 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("rejects negative elapsed time", func() {
			_, err := s.Advance(-time.Millisecond)
			Expect(err).To(MatchError(dynamo.ErrNegativeStep))
		})

		It("keeps simulated time in step with the accumulator", func() {
			params.Dt = 1.0 / 3000
			s = newSim(params, at(500, 400, 0, 0, 1))
			n, err := s.Advance(time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3000))
			Expect(s.Time()).To(BeNumerically("~", (time.Duration(n) * params.Step()).Seconds(), 1e-12))
			Expect(s.Time()).To(BeNumerically("<=", 1.0))
		})

		It("still steps with a MaxLag of exactly one step", func() {
			params.MaxLag = params.Dt
			s = newSim(params, at(500, 400, 0, 0, 1))
			n, err := s.Advance(time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})

		It("clamps the accumulator to MaxLag", func() {
			params.MaxLag = 0.01
			s = newSim(params, at(500, 400, 0, 0, 1))
			n, err := s.Advance(time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(16))
		})
	})

	Describe("stopping", func() {
		It("refuses to advance once stopped", func() {
			s := newSim(params, at(500, 400, 0, 0, 1))
			s.Stop()
			Expect(s.Stopped()).To(BeTrue())
			_, err := s.Advance(time.Second)
			Expect(err).To(MatchError(dynamo.ErrStopped))
			Expect(s.Step()).To(MatchError(dynamo.ErrStopped))
		})

		It("ends a drain early when an observer stops it", func() {
			s := newSim(params, at(500, 400, 0, 0, 1))
			s.AddObserver(sim.ObserverFunc(func(s *sim.Simulator) {
				if s.Steps() == 3 {
					s.Stop()
				}
			}))
			n, err := s.Advance(100 * params.Step())
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
		})
	})

	Describe("external inputs", func() {
		It("applies a force for exactly one step per event", func() {
			s := newSim(params, at(500, 400, 0, 0, 1))
			Expect(s.ApplyForce(0, dynamo.V(1600, 0))).To(Succeed())

			n, err := s.Advance(20 * params.Step())
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(20))

			p, _ := s.Particle(0)
			Expect(p.Velocity.X).To(BeNumerically("~", 1600*params.Dt, 1e-9))
			Expect(p.Acceleration).To(Equal(dynamo.Vec2{}))
		})

		It("keeps a queued input until a step actually runs", func() {
			s := newSim(params, at(500, 400, 0, 0, 2))
			Expect(s.ApplyImpulse(0, dynamo.V(10, 0))).To(Succeed())

			n, _ := s.Advance(params.Step() / 2)
			Expect(n).To(BeZero())
			p, _ := s.Particle(0)
			Expect(p.Velocity.X).To(BeZero())

			_, _ = s.Advance(4 * params.Step())
			p, _ = s.Particle(0)
			Expect(p.Velocity.X).To(BeNumerically("~", 5, 1e-12))
		})

		It("rejects inputs for unknown particles", func() {
			s := newSim(params, at(500, 400, 0, 0, 1))
			Expect(s.ApplyForce(1, dynamo.V(1, 0))).To(MatchError(dynamo.ErrIndexOutOfRange))
			Expect(s.ApplyImpulse(-1, dynamo.V(1, 0))).To(MatchError(dynamo.ErrIndexOutOfRange))
			Expect(s.ApplyForce(0, dynamo.V(math.NaN(), 0))).To(MatchError(dynamo.ErrParameterBounds))
			_, err := s.Particle(3)
			Expect(err).To(MatchError(dynamo.ErrIndexOutOfRange))
		})
	})

	Describe("walls", func() {
		It("reflects a particle driven into the right wall", func() {
			params.Width, params.Radius = 1000, 10
			s := newSim(params, at(990, 400, 400, 0, 1))

			Expect(s.Step()).To(Succeed())

			p, _ := s.Particle(0)
			Expect(p.Velocity.X).To(Equal(-400.0))
			Expect(p.Position.X).To(BeNumerically("~", 1000-10-params.Epsilon, 1e-9))
			Expect(s.Stats().WallHits).To(Equal(1))
		})

		It("travels to the wall and comes back", func() {
			s := newSim(params, at(900, 400, 400, 0, 1))
			_, err := s.Advance(300 * time.Millisecond)
			Expect(err).NotTo(HaveOccurred())

			p, _ := s.Particle(0)
			Expect(p.Velocity.X).To(Equal(-400.0))
			Expect(p.Position.X).To(BeNumerically("<", 1000-10-params.Epsilon))
		})
	})

	Describe("collisions", func() {
		It("swaps velocities of equal masses meeting head on", func() {
			s := newSim(params, at(400, 400, 100, 0, 1), at(460, 400, -100, 0, 1))
			_, err := s.Advance(500 * time.Millisecond)
			Expect(err).NotTo(HaveOccurred())

			a, _ := s.Particle(0)
			b, _ := s.Particle(1)
			Expect(a.Velocity.X).To(BeNumerically("~", -100, 1e-9))
			Expect(b.Velocity.X).To(BeNumerically("~", 100, 1e-9))
			Expect(s.Stats().Collisions).To(Equal(1))
		})

		It("conserves momentum in the elastic two ball scene", func() {
			s := newSim(params, at(100, 400, 400, 0, 10), at(500, 400, 0, 0, 1))
			_, err := s.Advance(time.Second)
			Expect(err).NotTo(HaveOccurred())

			a, _ := s.Particle(0)
			b, _ := s.Particle(1)
			Expect(s.Stats().Collisions).To(BeNumerically(">=", 1))
			Expect(a.Velocity.X*10 + b.Velocity.X).To(BeNumerically("~", 4000, 1e-6))
		})
	})

	Describe("spring meshes", func() {
		It("stays finite and inside the domain", func() {
			params.Drag = 0.001
			m, err := mesh.Build(mesh.Spec{
				Width: 100, Height: 100, SubdivX: 4, SubdivY: 4,
				Mass: 1, Velocity: dynamo.V(300, -150), Origin: dynamo.V(400, 300),
				Pattern: mesh.ZPattern, Stiffness: params.Stiffness,
			})
			Expect(err).NotTo(HaveOccurred())
			s, err := sim.New(params, m, integrators.NewRK4(), sim.WithStateValidation())
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Advance(2 * time.Second)
			Expect(err).NotTo(HaveOccurred())

			lo, hi := params.Radius, params.Width-params.Radius
			for _, p := range s.Particles() {
				Expect(p.IsFinite()).To(BeTrue())
				Expect(p.Position.X).To(BeNumerically(">=", lo))
				Expect(p.Position.X).To(BeNumerically("<=", hi))
			}
		})

		It("holds a mesh at rest", func() {
			m, err := mesh.Build(mesh.Spec{
				Width: 90, Height: 60, SubdivX: 3, SubdivY: 2,
				Mass: 1, Origin: dynamo.V(400, 300),
				Pattern: mesh.XPattern, Stiffness: params.Stiffness,
			})
			Expect(err).NotTo(HaveOccurred())
			before := append([]dynamo.Particle(nil), m.Particles...)
			s, _ := sim.New(params, m, integrators.NewRK4())

			_, _ = s.Advance(100 * params.Step())
			for i, p := range s.Particles() {
				Expect(p.Position.X).To(BeNumerically("~", before[i].Position.X, 1e-9))
				Expect(p.Position.Y).To(BeNumerically("~", before[i].Position.Y, 1e-9))
			}
		})
	})

	Describe("Run", func() {
		It("observes metrics once per step", func() {
			s := newSim(params, at(500, 400, 10, 0, 1))
			metric := &countingMetric{}
			s.AddMetric(metric)

			res, err := s.Run(context.Background(), 0.1, 16*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Time).To(BeNumerically(">=", 0.1))
			Expect(res.Steps).To(Equal(metric.count))
			Expect(res.Metrics).To(HaveKeyWithValue("count", float64(metric.count)))
		})

		It("stops on context cancellation", func() {
			s := newSim(params, at(500, 400, 10, 0, 1))
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.Run(ctx, 10, 16*time.Millisecond)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Steps).To(BeZero())
		})

		It("validates its arguments", func() {
			s := newSim(params, at(500, 400, 10, 0, 1))
			_, err := s.Run(context.Background(), 0, time.Millisecond)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			_, err = s.Run(context.Background(), 1, 0)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})
})

var _ = Describe("Loop", func() {
	It("converts frame intervals into steps", func() {
		params := dynamo.DefaultParams()
		s := newSim(params, at(500, 400, 0, 0, 1))
		clock := sim.NewManualClock(time.Unix(0, 0))
		loop := sim.NewLoop(s, clock)

		n, err := loop.Frame()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())

		clock.Advance(16 * time.Millisecond)
		n, err = loop.Frame()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(25))
		Expect(s.Lag()).To(Equal(375 * time.Microsecond))

		clock.Advance(250 * time.Microsecond)
		n, _ = loop.Frame()
		Expect(n).To(Equal(1))
		Expect(loop.Simulator()).To(BeIdenticalTo(s))
	})

	It("drops paused time on Reset", func() {
		s := newSim(dynamo.DefaultParams(), at(500, 400, 0, 0, 1))
		clock := sim.NewManualClock(time.Unix(0, 0))
		loop := sim.NewLoop(s, clock)
		_, _ = loop.Frame()

		clock.Advance(time.Second)
		loop.Reset()
		clock.Advance(time.Millisecond)
		n, err := loop.Frame()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})
})

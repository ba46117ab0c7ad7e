package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/particlesim/internal/collision"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/mesh"
)

type input struct {
	index int
	value dynamo.Vec2
}

// Simulator advances one mesh in fixed steps. It is not safe for
// concurrent use; rendering reads particle state between calls only.
type Simulator struct {
	params     dynamo.Params
	mesh       *mesh.Mesh
	integrator dynamo.Integrator
	resolver   *collision.Resolver
	bounds     collision.Bounds

	step   time.Duration
	maxLag time.Duration
	lag    time.Duration
	time   float64
	stats  Stats

	forces   []input
	impulses []input

	validate  bool
	stopped   bool
	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

// WithStateValidation makes Step fail with a SimError as soon as any
// particle quantity becomes NaN or Inf.
func WithStateValidation() Option {
	return func(s *Simulator) { s.validate = true }
}

func New(params dynamo.Params, m *mesh.Mesh, integrator dynamo.Integrator, opts ...Option) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if m == nil || integrator == nil {
		return nil, fmt.Errorf("%w: mesh and integrator are required", dynamo.ErrParameterBounds)
	}
	step := params.Step()
	if step <= 0 {
		return nil, fmt.Errorf("%w: dt %v is below clock resolution", dynamo.ErrParameterBounds, params.Dt)
	}
	resolver, err := collision.NewResolver(params.Radius, params.Restitution)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		params:     params,
		mesh:       m,
		integrator: integrator,
		resolver:   resolver,
		bounds:     collision.NewBounds(params),
		step:       step,
		maxLag:     time.Duration(math.Round(params.MaxLag * float64(time.Second))),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() dynamo.Params { return s.params }

// Particles exposes the particle arena for rendering. Callers must treat it
// as read-only.
func (s *Simulator) Particles() []dynamo.Particle { return s.mesh.Particles }

func (s *Simulator) Particle(i int) (dynamo.Particle, error) {
	if err := s.checkIndex(i); err != nil {
		return dynamo.Particle{}, err
	}
	return s.mesh.Particles[i], nil
}

func (s *Simulator) Springs() []mesh.Spring { return s.mesh.Springs }
func (s *Simulator) Mesh() *mesh.Mesh       { return s.mesh }
func (s *Simulator) Time() float64          { return s.time }
func (s *Simulator) Steps() int             { return s.stats.Steps }
func (s *Simulator) Stats() Stats           { return s.stats }

// Lag is the accumulated wall-clock time not yet consumed by a step.
func (s *Simulator) Lag() time.Duration { return s.lag }

func (s *Simulator) Stop()         { s.stopped = true }
func (s *Simulator) Stopped() bool { return s.stopped }

// ApplyForce queues a force on particle i for the next step only.
func (s *Simulator) ApplyForce(i int, f dynamo.Vec2) error {
	if err := s.checkInput(i, f); err != nil {
		return err
	}
	s.forces = append(s.forces, input{index: i, value: f})
	return nil
}

// ApplyImpulse queues an instantaneous momentum change on particle i,
// applied once before the next step.
func (s *Simulator) ApplyImpulse(i int, j dynamo.Vec2) error {
	if err := s.checkInput(i, j); err != nil {
		return err
	}
	s.impulses = append(s.impulses, input{index: i, value: j})
	return nil
}

func (s *Simulator) checkIndex(i int) error {
	if i < 0 || i >= len(s.mesh.Particles) {
		return fmt.Errorf("%w: %d of %d", dynamo.ErrIndexOutOfRange, i, len(s.mesh.Particles))
	}
	return nil
}

func (s *Simulator) checkInput(i int, v dynamo.Vec2) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if !v.IsFinite() {
		return fmt.Errorf("%w: non-finite input %v", dynamo.ErrParameterBounds, v)
	}
	return nil
}

// Advance adds elapsed wall-clock time to the accumulator and runs as many
// whole steps as it covers. The remainder carries to the next call. It
// returns the number of steps taken; a Stop from an observer ends the
// drain early.
func (s *Simulator) Advance(elapsed time.Duration) (int, error) {
	if s.stopped {
		return 0, dynamo.ErrStopped
	}
	if elapsed < 0 {
		return 0, fmt.Errorf("%w: elapsed %v", dynamo.ErrNegativeStep, elapsed)
	}

	s.lag += elapsed
	if s.maxLag > 0 && s.lag > s.maxLag {
		s.lag = s.maxLag
	}

	n := 0
	for s.lag >= s.step && !s.stopped {
		if err := s.Step(); err != nil {
			return n, err
		}
		s.lag -= s.step
		n++
	}
	return n, nil
}

// Step runs one full physics step: reset accelerations, one-shot inputs,
// spring and drag forces, collisions, integration, wall reflection.
func (s *Simulator) Step() error {
	if s.stopped {
		return dynamo.ErrStopped
	}
	m := s.mesh
	dt := s.step.Seconds()

	m.ResetAccelerations()
	s.applyInputs()
	m.ApplySpringForces(s.params.Damping)
	m.ApplyDrag(s.params.Drag)

	s.stats.Collisions += s.resolver.Resolve(m.Particles)

	for i := range m.Particles {
		if err := s.integrator.Step(&m.Particles[i], dt); err != nil {
			return err
		}
	}

	s.stats.WallHits += s.bounds.ReflectAll(m.Particles)
	s.stats.Steps++
	s.time += dt

	if s.validate {
		for i := range m.Particles {
			if !m.Particles[i].IsFinite() {
				return dynamo.SimError{Step: s.stats.Steps, Time: s.time, Message: fmt.Sprintf("particle %d has non-finite state", i)}
			}
		}
	}

	for _, metric := range s.metrics {
		metric.Observe(s.time, m)
	}
	for _, obs := range s.observers {
		obs.OnStep(s)
	}
	return nil
}

func (s *Simulator) applyInputs() {
	ps := s.mesh.Particles
	for _, in := range s.impulses {
		p := &ps[in.index]
		p.Velocity = p.Velocity.Add(in.value.Scale(1 / p.Mass))
	}
	for _, in := range s.forces {
		ps[in.index].AddForce(in.value)
	}
	s.impulses = s.impulses[:0]
	s.forces = s.forces[:0]
}

// Run drives the simulation headlessly with a constant frame duration until
// duration seconds of simulated time have passed, the context is canceled
// or the simulator is stopped.
func (s *Simulator) Run(ctx context.Context, duration float64, frame time.Duration) (*Result, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, duration)
	}
	if frame <= 0 {
		return nil, fmt.Errorf("%w: frame must be positive, got %v", dynamo.ErrParameterBounds, frame)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := time.Now()
	end := s.time + duration
	result := &Result{Metrics: make(map[string]float64)}

	var runErr error
	for s.time < end && !s.stopped {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if _, err := s.Advance(frame); err != nil {
			runErr = err
			break
		}
	}

	result.Stats = s.stats
	result.Time = s.time
	result.Elapsed = time.Since(start)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

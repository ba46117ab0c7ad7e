// Package dynamo provides the core primitives of the particle simulation.
//
// The package defines the value types every other package shares:
//
//   - [Vec2]: 2D vector arithmetic
//   - [Particle]: point mass with position, velocity and acceleration
//   - [Params]: immutable simulation configuration
//   - [Integrator]: single-particle fixed-step integrator
//
// # Example
//
//	p, _ := dynamo.NewParticle(dynamo.V(990, 400), dynamo.V(400, 0), 1)
//	integ := integrators.NewRK4()
//	_ = integ.Step(&p, dynamo.DefaultParams().Dt)
//
// # Thread Safety
//
// Nothing in this package is synchronized. A simulation is owned by a
// single goroutine for its whole lifetime.
package dynamo

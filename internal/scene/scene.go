// Package scene turns a scene configuration into a ready-to-run simulator.
package scene

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/mesh"
	"github.com/san-kum/particlesim/internal/sim"
)

// Mesh builds the combined particle arena of a scene: free balls first,
// then each mesh in file order.
func Mesh(cfg *config.Config) (*mesh.Mesh, error) {
	balls := make([]dynamo.Particle, 0, len(cfg.Balls))
	for i, b := range cfg.Balls {
		p, err := dynamo.NewParticle(dynamo.V(b.X, b.Y), dynamo.V(b.VX, b.VY), b.Mass)
		if err != nil {
			return nil, fmt.Errorf("ball %d: %w", i, err)
		}
		balls = append(balls, p)
	}

	world, err := mesh.New(balls, nil)
	if err != nil {
		return nil, err
	}

	for i := range cfg.Meshes {
		spec, err := cfg.MeshSpec(i)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		m, err := mesh.Build(spec)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		world.Append(m)
	}
	return world, nil
}

// Build validates cfg and returns a simulator for it.
func Build(cfg *config.Config, opts ...sim.Option) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	world, err := Mesh(cfg)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.New(cfg.Params(), world, integ, opts...)
}

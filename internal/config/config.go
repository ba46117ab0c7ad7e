package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/mesh"
)

const (
	DefaultIntegrator = "rk4"
	DefaultDuration   = 10.0
	DefaultMass       = 1.0
)

// Config is a scene file: physics constants, integrator and the bodies to
// simulate.
type Config struct {
	Name       string        `yaml:"name"`
	Integrator string        `yaml:"integrator"`
	Duration   float64       `yaml:"duration"`
	Physics    PhysicsConfig `yaml:"physics"`
	Balls      []BallConfig  `yaml:"balls,omitempty"`
	Meshes     []MeshConfig  `yaml:"meshes,omitempty"`
}

type PhysicsConfig struct {
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	Radius           float64 `yaml:"radius"`
	UpdatesPerSecond int     `yaml:"updates_per_second"`
	Restitution      float64 `yaml:"restitution"`
	Stiffness        float64 `yaml:"stiffness"`
	Damping          float64 `yaml:"damping"`
	Drag             float64 `yaml:"drag"`
	Epsilon          float64 `yaml:"epsilon"`
	MaxLag           float64 `yaml:"max_lag"`
}

type BallConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
	Mass float64 `yaml:"mass"`
}

type MeshConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	SubdivX int     `yaml:"subdiv_x"`
	SubdivY int     `yaml:"subdiv_y"`
	Mass    float64 `yaml:"mass"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
	Pattern string  `yaml:"pattern"`
}

func DefaultPhysics() PhysicsConfig {
	p := dynamo.DefaultParams()
	return PhysicsConfig{
		Width:            p.Width,
		Height:           p.Height,
		Radius:           p.Radius,
		UpdatesPerSecond: dynamo.DefaultUpdatesPerSecond,
		Restitution:      p.Restitution,
		Stiffness:        p.Stiffness,
		Damping:          p.Damping,
		Drag:             p.Drag,
		Epsilon:          p.Epsilon,
	}
}

// DefaultConfig is the two ball elastic collision scene.
func DefaultConfig() *Config {
	return &Config{
		Name:       "elastic",
		Integrator: DefaultIntegrator,
		Duration:   DefaultDuration,
		Physics:    DefaultPhysics(),
		Balls: []BallConfig{
			{X: 100, Y: 400, VX: 400, Mass: 10},
			{X: 500, Y: 400, Mass: 1},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Integrator: DefaultIntegrator,
		Duration:   DefaultDuration,
		Physics:    DefaultPhysics(),
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the physics block into simulation parameters.
func (c *Config) Params() dynamo.Params {
	ph := c.Physics
	dt := 0.0
	if ph.UpdatesPerSecond > 0 {
		dt = 1.0 / float64(ph.UpdatesPerSecond)
	}
	return dynamo.Params{
		Width:       ph.Width,
		Height:      ph.Height,
		Radius:      ph.Radius,
		Dt:          dt,
		Restitution: ph.Restitution,
		Stiffness:   ph.Stiffness,
		Damping:     ph.Damping,
		Drag:        ph.Drag,
		Epsilon:     ph.Epsilon,
		MaxLag:      ph.MaxLag,
	}
}

// MeshSpec converts one mesh entry using the scene's spring stiffness.
func (c *Config) MeshSpec(i int) (mesh.Spec, error) {
	mc := c.Meshes[i]
	pattern, err := mesh.ParsePattern(mc.Pattern)
	if err != nil {
		return mesh.Spec{}, err
	}
	mass := mc.Mass
	if mass == 0 {
		mass = DefaultMass
	}
	return mesh.Spec{
		Width:     mc.Width,
		Height:    mc.Height,
		SubdivX:   mc.SubdivX,
		SubdivY:   mc.SubdivY,
		Mass:      mass,
		Velocity:  dynamo.V(mc.VX, mc.VY),
		Origin:    dynamo.V(mc.X, mc.Y),
		Pattern:   pattern,
		Stiffness: c.Physics.Stiffness,
	}, nil
}

// Tunable lists the physics fields SetPhysics accepts.
var Tunable = []string{"damping", "drag", "epsilon", "radius", "restitution", "stiffness"}

// SetPhysics sets a physics field by its yaml name.
func (c *Config) SetPhysics(name string, v float64) error {
	ph := &c.Physics
	switch name {
	case "damping":
		ph.Damping = v
	case "drag":
		ph.Drag = v
	case "epsilon":
		ph.Epsilon = v
	case "radius":
		ph.Radius = v
	case "restitution":
		ph.Restitution = v
	case "stiffness":
		ph.Stiffness = v
	default:
		return fmt.Errorf("unknown physics parameter: %s (tunable: %v)", name, Tunable)
	}
	return nil
}

// Validate reports every problem in the scene at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Physics.UpdatesPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("%w: updates_per_second = %d", dynamo.ErrParameterBounds, c.Physics.UpdatesPerSecond))
	} else if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		errs = append(errs, err)
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: duration = %v", dynamo.ErrParameterBounds, c.Duration))
	}
	if len(c.Balls) == 0 && len(c.Meshes) == 0 {
		errs = append(errs, errors.New("scene has no balls or meshes"))
	}
	for i, b := range c.Balls {
		if b.Mass <= 0 {
			errs = append(errs, fmt.Errorf("ball %d: %w: got %v", i, dynamo.ErrInvalidMass, b.Mass))
		}
	}
	for i := range c.Meshes {
		spec, err := c.MeshSpec(i)
		if err == nil {
			err = spec.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("mesh %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/mesh"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if len(cfg.Balls) != 2 {
		t.Errorf("expected 2 balls, got %d", len(cfg.Balls))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	p := cfg.Params()
	if p != dynamo.DefaultParams() {
		t.Errorf("default params mismatch: %+v", p)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_Copy(t *testing.T) {
	cfg := GetPreset("cradle")
	cfg.Balls[0].VX = -1

	if Presets["cradle"].Balls[0].VX != 300 {
		t.Error("GetPreset returned shared ball slice")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestMeshSpec(t *testing.T) {
	cfg := GetPreset("lattice")
	spec, err := cfg.MeshSpec(1)
	if err != nil {
		t.Fatal(err)
	}

	if spec.Pattern != mesh.ZPattern {
		t.Errorf("expected z pattern, got %v", spec.Pattern)
	}
	if spec.Origin != dynamo.V(650, 300) || spec.Velocity != dynamo.V(-200, 60) {
		t.Errorf("unexpected placement: %+v", spec)
	}
	if spec.Stiffness != cfg.Physics.Stiffness {
		t.Errorf("expected scene stiffness, got %f", spec.Stiffness)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"zero updates", func(c *Config) { c.Physics.UpdatesPerSecond = 0 }, dynamo.ErrParameterBounds},
		{"bad restitution", func(c *Config) { c.Physics.Restitution = 2 }, dynamo.ErrParameterBounds},
		{"unknown integrator", func(c *Config) { c.Integrator = "leapfrog" }, dynamo.ErrUnknownIntegrator},
		{"zero mass ball", func(c *Config) { c.Balls[1].Mass = 0 }, dynamo.ErrInvalidMass},
		{"bad pattern", func(c *Config) {
			c.Meshes = []MeshConfig{{Width: 10, Height: 10, SubdivX: 1, SubdivY: 1, Pattern: "hex"}}
		}, dynamo.ErrUnknownPattern},
		{"zero subdivisions", func(c *Config) {
			c.Meshes = []MeshConfig{{Width: 10, Height: 10, Pattern: "grid"}}
		}, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}

	empty := DefaultConfig()
	empty.Balls = nil
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty scene")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`
name: custom
integrator: verlet
physics:
  drag: 0.01
  updates_per_second: 1000
meshes:
  - {x: 100, y: 100, width: 60, height: 60, subdiv_x: 2, subdiv_y: 3, pattern: x}
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Integrator != "verlet" || cfg.Duration != DefaultDuration {
		t.Errorf("unexpected header: %+v", cfg)
	}
	p := cfg.Params()
	if p.Dt != 0.001 || p.Drag != 0.01 || p.Width != dynamo.DefaultWidth {
		t.Errorf("physics defaults not merged: %+v", p)
	}
	if len(cfg.Meshes) != 1 || cfg.Meshes[0].SubdivY != 3 {
		t.Errorf("mesh not parsed: %+v", cfg.Meshes)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(path, []byte("physics:\n  radius: -1\nballs:\n  - {x: 1, y: 1, mass: 1}\n"), 0644)
	if _, err := Load(path); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Save(path, GetPreset("jelly")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if cfg.Name != "jelly" || cfg.Meshes[0].Pattern != "grid" {
		t.Errorf("unexpected reload: %+v", cfg)
	}
}

func TestSetPhysics(t *testing.T) {
	cfg := DefaultConfig()
	for i, name := range Tunable {
		v := float64(i) + 0.25
		if err := cfg.SetPhysics(name, v); err != nil {
			t.Fatalf("SetPhysics(%s): %v", name, err)
		}
	}
	if cfg.Physics.Damping != 0.25 || cfg.Physics.Stiffness != 5.25 {
		t.Errorf("unexpected physics: %+v", cfg.Physics)
	}
	if err := cfg.SetPhysics("gravity", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

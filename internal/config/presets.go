package config

import "sort"

var Presets = map[string]*Config{
	"elastic": DefaultConfig(),
	"bounce": {
		Name: "bounce", Integrator: "rk4", Duration: 5.0, Physics: DefaultPhysics(),
		Balls: []BallConfig{{X: 990, Y: 400, VX: 400, Mass: 1}},
	},
	"cradle": {
		Name: "cradle", Integrator: "rk4", Duration: 10.0, Physics: DefaultPhysics(),
		Balls: []BallConfig{
			{X: 150, Y: 400, VX: 300, Mass: 1},
			{X: 400, Y: 400, Mass: 1},
			{X: 421, Y: 400, Mass: 1},
			{X: 442, Y: 400, Mass: 1},
			{X: 463, Y: 400, Mass: 1},
		},
	},
	"jelly": {
		Name: "jelly", Integrator: "rk4", Duration: 20.0, Physics: withDrag(0.0005),
		Meshes: []MeshConfig{
			{X: 200, Y: 200, Width: 150, Height: 150, SubdivX: 5, SubdivY: 5, Mass: 1, VX: 250, VY: 120, Pattern: "grid"},
		},
	},
	"lattice": {
		Name: "lattice", Integrator: "rk4", Duration: 20.0, Physics: withDrag(0.0005),
		Meshes: []MeshConfig{
			{X: 200, Y: 300, Width: 150, Height: 150, SubdivX: 5, SubdivY: 5, Mass: 1, VX: 300, VY: -80, Pattern: "z"},
			{X: 650, Y: 300, Width: 120, Height: 120, SubdivX: 4, SubdivY: 4, Mass: 1, VX: -200, VY: 60, Pattern: "z"},
		},
	},
	"cross": {
		Name: "cross", Integrator: "rk4", Duration: 20.0, Physics: withDrag(0.0005),
		Meshes: []MeshConfig{
			{X: 300, Y: 250, Width: 200, Height: 200, SubdivX: 6, SubdivY: 6, Mass: 1, VX: 200, VY: 200, Pattern: "x"},
		},
	},
}

func withDrag(drag float64) PhysicsConfig {
	p := DefaultPhysics()
	p.Drag = drag
	return p
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Balls = append([]BallConfig(nil), cfg.Balls...)
	c.Meshes = append([]MeshConfig(nil), cfg.Meshes...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/particlesim/internal/export"
)

func tensionColor(tension, rest float64) rl.Color {
	r, g, b := export.SpringShade(tension, rest)
	return rl.NewColor(r, g, b, 255)
}

func (a *App) drawSim() {
	s := a.Loop.Simulator()
	p := s.Params()
	m := s.Mesh()

	rl.DrawRectangleLines(0, 0, int32(p.Width), int32(p.Height), ColWall)

	for k, sp := range m.Springs {
		pa := m.Particles[sp.A].Position
		pb := m.Particles[sp.B].Position
		rl.DrawLineV(
			rl.NewVector2(float32(pa.X), float32(pa.Y)),
			rl.NewVector2(float32(pb.X), float32(pb.Y)),
			tensionColor(m.Tension(k), sp.RestLength),
		)
	}

	r := float32(p.Radius)
	for i := range m.Particles {
		pos := m.Particles[i].Position
		c := rl.NewVector2(float32(pos.X), float32(pos.Y))
		rl.DrawCircleV(c, r, ColBall)
		if i == a.Selected {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), r+3, ColSelect)
		}
	}
}

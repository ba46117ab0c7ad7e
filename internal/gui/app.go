package gui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColBall    = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWall    = rl.NewColor(30, 30, 30, 255)
)

const (
	defaultKick = 200.0
	minKick     = 25.0
	maxKick     = 3200.0
	hudHeight   = 40
)

type App struct {
	Loop     *sim.Loop
	Name     string
	Selected int
	Kick     float64
	Running  bool
	Font     rl.Font
	Err      error
}

func initWindow(p dynamo.Params) {
	rl.InitWindow(int32(p.Width), int32(p.Height)+hudHeight, "particlesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens a window sized to the simulation domain and drives s from the
// wall clock until the window is closed or the user quits. It returns the
// first simulation error, if any.
func Run(s *sim.Simulator, name string) error {
	initWindow(s.Params())
	defer rl.CloseWindow()

	app := &App{
		Loop:    sim.NewLoop(s, sim.SystemClock{}),
		Name:    name,
		Kick:    defaultKick,
		Running: true,
		Font:    loadFont(),
	}
	app.RunLoop()
	return app.Err
}

func (a *App) RunLoop() {
	s := a.Loop.Simulator()
	for !rl.WindowShouldClose() && !s.Stopped() {
		a.Update()
		a.Draw()
	}
	s.Stop()
}

func (a *App) Update() {
	s := a.Loop.Simulator()
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		s.Stop()
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if n := len(s.Particles()); n > 0 && rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.Selected = (a.Selected - 1 + n) % n
		} else {
			a.Selected = (a.Selected + 1) % n
		}
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.Kick = min(a.Kick*2, maxKick)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.Kick = max(a.Kick/2, minKick)
	}

	// Edge-triggered so a held key kicks once.
	switch {
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
		a.push(dynamo.V(0, -1))
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
		a.push(dynamo.V(0, 1))
	case rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH):
		a.push(dynamo.V(-1, 0))
	case rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL):
		a.push(dynamo.V(1, 0))
	}

	if !a.Running || a.Err != nil {
		// A resume must not replay the paused interval.
		a.Loop.Reset()
		return
	}
	if _, err := a.Loop.Frame(); err != nil {
		slog.Error("simulation halted", "err", err)
		a.Err = err
		a.Running = false
	}
}

func (a *App) push(dir dynamo.Vec2) {
	s := a.Loop.Simulator()
	p, err := s.Particle(a.Selected)
	if err != nil {
		return
	}
	if err := s.ApplyImpulse(a.Selected, dir.Scale(p.Mass*a.Kick)); err != nil {
		slog.Warn("impulse rejected", "particle", a.Selected, "err", err)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.drawSim()
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	s := a.Loop.Simulator()
	p := s.Params()
	y := int(p.Height) + 10

	a.drawText("particlesim", 10, y, 18, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 140, y+2, 14, ColText)

	st := s.Stats()
	a.drawText(fmt.Sprintf("t=%.2f  steps=%d  hits=%d  KE=%.1f  kick=%.0f",
		s.Time(), st.Steps, st.Collisions, s.Mesh().KineticEnergy(), a.Kick), 280, y+2, 14, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	if a.Err != nil {
		status = "HALTED"
		col = rl.Red
	}
	a.drawText(status, int(p.Width)-90, y+2, 14, col)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(p.Width)-180, y+2, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

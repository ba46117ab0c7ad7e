package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	defaultKick = 200.0
	minKick     = 25.0
	maxKick     = 3200.0
)

type tickMsg time.Time

type model struct {
	sim      *sim.Simulator
	name     string
	canvas   *Canvas
	selected int
	kick     float64
	paused   bool
	last     time.Time
	fps      float64
	err      error
	width    int
	height   int
	styles   styles
}

func newModel(s *sim.Simulator, name string, theme Theme) model {
	return model{
		sim:    s,
		name:   name,
		canvas: NewCanvas(80, 24),
		kick:   defaultKick,
		width:  80,
		height: 24,
		styles: newStyles(theme),
	}
}

// Run opens the live terminal view and blocks until the user quits.
func Run(s *sim.Simulator, name string, theme Theme) error {
	p := tea.NewProgram(newModel(s, name, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := canvasSize(msg.Width, msg.Height)
		m.canvas = NewCanvas(w, h)
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if m.last.IsZero() || m.paused || m.err != nil {
			m.last = now
			return m, tick()
		}
		elapsed := now.Sub(m.last)
		m.last = now
		if elapsed > 0 {
			m.fps = 0.9*m.fps + 0.1*(float64(time.Second)/float64(elapsed))
		}
		if _, err := m.sim.Advance(elapsed); err != nil {
			m.err = err
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		m.sim.Stop()
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "tab", "n":
		if n := len(m.sim.Particles()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "shift+tab", "N":
		if n := len(m.sim.Particles()); n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
	case "+", "=":
		m.kick = math.Min(m.kick*2, maxKick)
	case "-", "_":
		m.kick = math.Max(m.kick/2, minKick)
	case "up", "k":
		m.push(dynamo.V(0, -1))
	case "down", "j":
		m.push(dynamo.V(0, 1))
	case "left", "h":
		m.push(dynamo.V(-1, 0))
	case "right", "l":
		m.push(dynamo.V(1, 0))
	}
	return m, nil
}

// push queues one impulse on the selected particle that changes its speed
// by the current kick strength along dir.
func (m *model) push(dir dynamo.Vec2) {
	p, err := m.sim.Particle(m.selected)
	if err != nil {
		return
	}
	if err := m.sim.ApplyImpulse(m.selected, dir.Scale(p.Mass*m.kick)); err != nil {
		m.err = err
	}
}

// canvasSize leaves room for the title, status lines and border.
func canvasSize(w, h int) (int, int) {
	return max(w-2, 10), max(h-6, 4)
}

func (m model) project(p dynamo.Vec2) (int, int) {
	params := m.sim.Params()
	cw, ch := m.canvas.Cells()
	x := int(p.X / params.Width * float64(cw-1))
	y := int(p.Y / params.Height * float64(ch-1))
	return x, y
}

func (m model) draw() {
	m.canvas.Clear()
	ps := m.sim.Particles()
	for _, s := range m.sim.Springs() {
		x0, y0 := m.project(ps[s.A].Position)
		x1, y1 := m.project(ps[s.B].Position)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for i := range ps {
		x, y := m.project(ps[i].Position)
		m.canvas.Dot(x, y)
	}
}

func (m model) View() string {
	var b strings.Builder

	title := m.styles.title.Render("particlesim")
	if m.name != "" {
		title += m.styles.dim.Render(" · " + m.name)
	}
	if m.paused {
		title += "  " + m.styles.pause.Render("PAUSED")
	}
	b.WriteString(title + "\n")

	m.draw()
	b.WriteString(m.styles.frame.Render(strings.Repeat("─", m.canvas.Width)) + "\n")
	b.WriteString(m.styles.body.Render(m.canvas.String()) + "\n")
	b.WriteString(m.styles.frame.Render(strings.Repeat("─", m.canvas.Width)) + "\n")

	b.WriteString(m.status() + "\n")
	if m.err != nil {
		b.WriteString(m.styles.err.Render(m.err.Error()) + "\n")
	} else {
		b.WriteString(m.styles.dim.Render("arrows/hjkl kick  tab select  +/- strength  space pause  q quit") + "\n")
	}
	return b.String()
}

func (m model) status() string {
	st := m.sim.Stats()
	ms := m.sim.Mesh()
	fields := []string{
		fmt.Sprintf("t=%.2fs", m.sim.Time()),
		fmt.Sprintf("steps=%d", st.Steps),
		fmt.Sprintf("hits=%d", st.Collisions),
		fmt.Sprintf("KE=%.1f", ms.KineticEnergy()),
		fmt.Sprintf("fps=%.0f", m.fps),
		fmt.Sprintf("kick=%.0f", m.kick),
	}
	if p, err := m.sim.Particle(m.selected); err == nil {
		fields = append(fields, fmt.Sprintf("#%d pos=(%.0f,%.0f) vel=(%.0f,%.0f)",
			m.selected, p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y))
	}
	if len(ms.Springs) > 0 {
		stretch, squeeze := 0.0, 0.0
		for k := range ms.Springs {
			t := ms.Tension(k)
			stretch = math.Max(stretch, t)
			squeeze = math.Min(squeeze, t)
		}
		fields = append(fields, fmt.Sprintf("spring +%.1f/%.1f", stretch, squeeze))
	}
	return m.styles.field.Render(strings.Join(fields, "  "))
}

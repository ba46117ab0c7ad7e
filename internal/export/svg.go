package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/mesh"
	"github.com/san-kum/particlesim/internal/sim"
)

// Trails records the path of every particle, one point every Every steps.
type Trails struct {
	Every int
	Paths [][]dynamo.Vec2
	count int
}

func NewTrails(every int) *Trails {
	if every < 1 {
		every = 1
	}
	return &Trails{Every: every}
}

func (t *Trails) OnStep(s *sim.Simulator) {
	if t.count%t.Every == 0 {
		ps := s.Particles()
		if len(t.Paths) < len(ps) {
			t.Paths = append(t.Paths, make([][]dynamo.Vec2, len(ps)-len(t.Paths))...)
		}
		for i := range ps {
			t.Paths[i] = append(t.Paths[i], ps[i].Position)
		}
	}
	t.count++
}

// SpringShade maps a spring's tension to red when stretched and blue when
// compressed, saturating at half the rest length.
func SpringShade(tension, rest float64) (r, g, b uint8) {
	if rest <= 0 {
		return 140, 140, 140
	}
	k := math.Min(math.Abs(tension)/(0.5*rest), 1)
	shade := uint8(90 + 165*k)
	fade := uint8(90 * (1 - k))
	if tension >= 0 {
		return shade, fade, fade
	}
	return fade, fade, shade
}

func SpringColor(tension, rest float64) string {
	r, g, b := SpringShade(tension, rest)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// SceneToSVG writes the domain, the particle trails (if any), the springs
// colored by tension and the particles. Coordinates are domain units with
// y pointing down, as on screen.
func SceneToSVG(w io.Writer, m *mesh.Mesh, p dynamo.Params, trails *Trails) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a" stroke="#1e1e1e"/>
`, p.Width, p.Height, p.Width, p.Height))

	if trails != nil {
		sb.WriteString(`<g fill="none" stroke="#3c3c3c" stroke-width="1">` + "\n")
		for _, path := range trails.Paths {
			if len(path) < 2 {
				continue
			}
			sb.WriteString(`<path d="M`)
			for i, pt := range path {
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%.1f,%.1f", pt.X, pt.Y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", pt.X, pt.Y))
				}
			}
			sb.WriteString(`"/>` + "\n")
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(`<g stroke-width="1.5">` + "\n")
	for k, s := range m.Springs {
		a := m.Particles[s.A].Position
		b := m.Particles[s.B].Position
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, a.X, a.Y, b.X, b.Y, SpringColor(m.Tension(k), s.RestLength)))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#b4b4b4">` + "\n")
	for i := range m.Particles {
		pos := m.Particles[i].Position
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, pos.X, pos.Y, p.Radius))
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

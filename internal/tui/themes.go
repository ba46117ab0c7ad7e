package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Body    lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeTerminal = Theme{
		Name:    "terminal",
		Primary: lipgloss.Color("86"),
		Text:    lipgloss.Color("255"),
		Muted:   lipgloss.Color("242"),
		Border:  lipgloss.Color("238"),
		Body:    lipgloss.Color("82"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("213"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Border:  lipgloss.Color("#003300"),
		Body:    lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Border:  lipgloss.Color("#00a8cc"),
		Body:    lipgloss.Color("#ffd700"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{
		ThemeTerminal,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name.
func GetTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	title lipgloss.Style
	field lipgloss.Style
	dim   lipgloss.Style
	frame lipgloss.Style
	body  lipgloss.Style
	pause lipgloss.Style
	err   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		field: lipgloss.NewStyle().Foreground(t.Text),
		dim:   lipgloss.NewStyle().Foreground(t.Muted),
		frame: lipgloss.NewStyle().Foreground(t.Border),
		body:  lipgloss.NewStyle().Foreground(t.Body),
		pause: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		err:   lipgloss.NewStyle().Foreground(t.Error),
	}
}

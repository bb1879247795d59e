package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view.
type Theme struct {
	Name   string
	Body   lipgloss.Color
	Trail  lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "night",
		Body:   lipgloss.Color("#e0f0ff"),
		Trail:  lipgloss.Color("#4488aa"),
		Accent: lipgloss.Color("86"),
		Muted:  lipgloss.Color("240"),
	},
	{
		Name:   "retro",
		Body:   lipgloss.Color("#00ff00"),
		Trail:  lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	},
	{
		Name:   "sunset",
		Body:   lipgloss.Color("#feca57"),
		Trail:  lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#ff9ff3"),
		Muted:  lipgloss.Color("#8b6b8c"),
	},
}

// ThemeNames returns the names of the available themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

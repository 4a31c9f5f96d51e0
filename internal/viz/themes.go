package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colour scheme for the terminal view. Ink replaces
// achromatic paint such as the figures and glyph text so they stay visible on
// dark backgrounds.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Ink        lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
}

// Available themes
var (
	ThemePaper = Theme{
		Name:       "paper",
		Background: lipgloss.Color("#f5f3ee"),
		Ink:        lipgloss.Color("#323232"),
		Accent:     lipgloss.Color("#d9480f"),
		Text:       lipgloss.Color("#1e1e1e"),
		Muted:      lipgloss.Color("#8a8a8a"),
	}

	ThemeNight = Theme{
		Name:       "night",
		Background: lipgloss.Color("#0a0a12"),
		Ink:        lipgloss.Color("#c8c8d8"),
		Accent:     lipgloss.Color("#ff00ff"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: lipgloss.Color("#001a33"), // deep blue
		Ink:        lipgloss.Color("#e0f0ff"),
		Accent:     lipgloss.Color("#ffd700"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Background: lipgloss.Color("#2d1b2e"),
		Ink:        lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff6b6b"), // coral
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Background: lipgloss.Color("#001100"),
		Ink:        lipgloss.Color("#00ff00"), // green phosphor
		Accent:     lipgloss.Color("#88ff88"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
	}

	Themes = []Theme{
		ThemePaper,
		ThemeNight,
		ThemeOcean,
		ThemeSunset,
		ThemeRetro,
	}
)

// GetTheme returns a theme by name, falling back to paper.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePaper
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Paint returns the background as an opaque colour for hosts that do not draw
// through lipgloss.
func (t Theme) Paint() color.Color {
	c := hexOr(t.Background, colorful.Color{R: 1, G: 1, B: 1})
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

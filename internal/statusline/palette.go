package statusline

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/pulseline/internal/config"
)

// ColorName is a semantic color looked up in a Palette.
type ColorName string

const (
	NoColor ColorName = ""
	Green   ColorName = "green"
	Yellow  ColorName = "yellow"
	Red     ColorName = "red"
	Warm    ColorName = "warm"
	Neutral ColorName = "neutral"
	Branch  ColorName = "branch"
)

// Palette maps semantic color names to terminal colors. It is built once
// and never modified.
type Palette struct {
	renderer *lipgloss.Renderer
	colors   map[ColorName]lipgloss.Color
}

// NewPalette builds a palette from config color values (ANSI index or hex).
// The profile is fixed up front because stdout is normally a pipe and
// detection would always pick plain ASCII.
func NewPalette(colors map[string]string, profile termenv.Profile) Palette {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	m := make(map[ColorName]lipgloss.Color, len(colors))
	for name, value := range colors {
		m[ColorName(name)] = lipgloss.Color(value)
	}
	return Palette{renderer: r, colors: m}
}

// Render wraps text in the escape sequence for name. Unknown names and an
// ASCII profile leave text untouched.
func (p Palette) Render(name ColorName, text string) string {
	color, ok := p.colors[name]
	if !ok || p.renderer == nil {
		return text
	}
	return p.renderer.NewStyle().Foreground(color).Render(text)
}

// ColorProfile picks the termenv profile for an output.color mode.
// noColor is the --no-color flag.
func ColorProfile(mode string, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		return termenv.ANSI256
	default:
		if _, set := os.LookupEnv("NO_COLOR"); set {
			return termenv.Ascii
		}
		return termenv.ANSI256
	}
}

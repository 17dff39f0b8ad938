package statusline

import (
	"os"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPalette_Render(t *testing.T) {
	p := NewPalette(map[string]string{"green": "2", "red": "1"}, termenv.ANSI256)

	assert.Equal(t, "\x1b[32mok\x1b[0m", p.Render(Green, "ok"))
	assert.Equal(t, "\x1b[31mbad\x1b[0m", p.Render(Red, "bad"))
	assert.Equal(t, "plain", p.Render(Warm, "plain"), "unknown names render uncolored")
	assert.Equal(t, "plain", p.Render(NoColor, "plain"))
}

func TestPalette_Ascii(t *testing.T) {
	p := NewPalette(config.DefaultColors(), termenv.Ascii)
	assert.Equal(t, "ok", p.Render(Green, "ok"))
}

func TestPalette_ZeroValue(t *testing.T) {
	var p Palette
	assert.Equal(t, "ok", p.Render(Green, "ok"))
}

func TestColorProfile(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		noColor bool
		env     bool
		want    termenv.Profile
	}{
		{name: "auto", mode: config.ColorAuto, want: termenv.ANSI256},
		{name: "auto with NO_COLOR", mode: config.ColorAuto, env: true, want: termenv.Ascii},
		{name: "always ignores NO_COLOR", mode: config.ColorAlways, env: true, want: termenv.ANSI256},
		{name: "never", mode: config.ColorNever, want: termenv.Ascii},
		{name: "flag wins", mode: config.ColorAlways, noColor: true, want: termenv.Ascii},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			if !tt.env {
				os.Unsetenv("NO_COLOR")
			}
			assert.Equal(t, tt.want, ColorProfile(tt.mode, tt.noColor))
		})
	}
}

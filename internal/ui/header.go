package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Title   string // e.g. "pulseline doctor"
	Version string // Optional version string (e.g., "v0.4.0")
	Detail  string // Optional line under the title, such as the config path
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders a bold title, an optional muted detail line and a
// divider.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var output strings.Builder

	output.WriteString(titleStyle.Render(info.Title))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Detail != "" {
		output.WriteString(mutedStyle.Render(info.Detail))
		output.WriteString("\n")
	}

	output.WriteString(mutedStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}

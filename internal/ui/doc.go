// Package ui holds the shared lipgloss styles and symbols for pulseline's
// human-facing command output (doctor, init).
//
// Colors are ANSI codes so they follow the terminal theme:
//
//	ColorSuccess (green)  - passing checks
//	ColorError   (red)    - failures
//	ColorWarning (yellow) - warnings
//	ColorInfo    (cyan)   - versions, paths
//	ColorMuted   (gray)   - suggestions and secondary text
//
// Use DisableColors() for --no-color.
package ui

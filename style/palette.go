// Package style provides a functional API for composing and applying lipgloss-based terminal styles.
package style

import "github.com/charmbracelet/lipgloss"

// Palette defines the application's color scheme.
var (
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Sky      = lipgloss.Color("#89dceb")

	// Semantic mappings
	AccentColor    = Mauve
	SuccessColor   = Green
	WarningColor   = Yellow
	ErrorColor     = Red
	LinkColor      = Sky
)

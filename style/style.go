// Package style provides a functional API for composing and applying lipgloss-based terminal styles.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/vres-cli/vres/color"
)

// New returns an empty lipgloss.Style used as a foundation for visual composition.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a stateless rendering function that applies the specified foreground color to a string.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a rendering function that cuts the string to max cells, ending with an ellipsis.
// A non-positive max leaves the string untouched.
func Truncate(max int) func(string) string {
	return func(s string) string {
		if max <= 0 {
			return s
		}
		return truncate.StringWithTail(s, uint(max), "…")
	}
}

// Standard Text Transformation Helpers - these functions apply common typographic styles like bold or italics.
var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a highlighted banner.
var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle renders a visually highlighted banner using dominant error status colors.
var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}

// Tag returns a rendering function that encapsulates a string in a colored, padded tag block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

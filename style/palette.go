// Package style centralizes the color palette and lipgloss helpers shared by every surface.
package style

import "github.com/charmbracelet/lipgloss"

// The palette is Catppuccin Mocha, cut down to the tones the views draw with.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Subtext = lipgloss.Color("#a6adc8")

	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Green    = lipgloss.Color("#a6e3a1")
	Lavender = lipgloss.Color("#b4befe")
)

// Accent marks the active element on every screen.
var Accent = Mauve

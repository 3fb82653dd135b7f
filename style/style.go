// Package style builds the lipgloss styles behind every piece of colored output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vodhound/vodhound/color"
)

// New returns an empty style to compose on.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored returns a style with the given foreground and background.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// render turns a composed style into a plain string transformer.
func render(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

// Fg colors the foreground only.
func Fg(c lipgloss.Color) func(string) string {
	return render(New().Foreground(c))
}

// Bg colors the background only.
func Bg(c lipgloss.Color) func(string) string {
	return render(New().Background(c))
}

// Truncate constrains output to at most max cells wide.
func Truncate(max int) func(string) string {
	return render(New().Width(max))
}

// Single-attribute transformers shared across all surfaces.
var (
	Faint     = render(New().Faint(true))
	Bold      = render(New().Bold(true))
	Italic    = render(New().Italic(true))
	Underline = render(New().Underline(true))
)

// Title is the banner printed above menus and result listings.
var Title = render(Colored(color.New("230"), color.New("62")).Padding(0, 1))

// ErrorTitle is the banner used when something failed.
var ErrorTitle = render(Colored(color.New("230"), color.Red).Padding(0, 1))

// Tag wraps a string in a padded colored block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return render(Colored(fg, bg).Padding(0, 1))
}

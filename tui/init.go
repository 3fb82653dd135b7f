// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the terminal user interface and triggers the site registry load.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, b.loadProviders())
}

// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/key"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Resume bool
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	if options.Resume {
		if !bubble.restoreSession() {
			return errors.New("no recent session to resume")
		}
	} else if viper.GetBool(key.TUIResumeSession) && bubble.offerResume() {
		bubble.newState(resumeState)
	} else {
		bubble.newState(searchState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}

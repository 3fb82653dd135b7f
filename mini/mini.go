// Package mini implements a lightweight, prompt-driven interface for
// searching videos and inspecting their play sources.
package mini

import (
	"errors"
	"os"

	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
)

// truncateAt caps rendered text width. Run stretches it to the terminal.
var truncateAt = 100

// Options configures a mini session.
type Options struct {
	// Resume restores the previous session instead of prompting for a query.
	Resume bool
}

// mini drives the prompt loop: a small state machine over survey questions.
type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	store   *session.Store
	gateway *session.Gateway

	sources []source.Source

	selectedRecord *source.Record
	cachedDetails  map[string]*source.Record
}

func newMini() *mini {
	return &mini{
		store:         session.New(),
		gateway:       session.NewGateway(),
		cachedDetails: make(map[string]*source.Record),
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

// newState moves to s, remembering where we came from.
func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if m.state != quitState {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

// Run drives the prompt loop until the user quits or a prompt fails.
func Run(options *Options) error {
	m := newMini()
	m.state = searchState

	if options.Resume {
		snapshot, ok := m.gateway.Load()
		if !ok || !m.store.Restore(snapshot) {
			return errors.New("no recent session to resume")
		}

		m.state = bucketSelectState
	}

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for {
		if err := m.handleState(); err != nil {
			return err
		}
	}
}

// handleState runs one prompt round for the current state.
func (m *mini) handleState() error {
	switch m.state {
	case searchState:
		return m.handleSearchState()
	case bucketSelectState:
		return m.handleBucketSelectState()
	case recordSelectState:
		return m.handleRecordSelectState()
	case detailState:
		return m.handleDetailState()
	case quitState:
		os.Exit(0)
	}

	return nil
}

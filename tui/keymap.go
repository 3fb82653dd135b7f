// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/style"
)

// statefulKeymap narrows the advertised bindings to the ones meaningful in
// the current state.
type statefulKeymap struct {
	state state

	quit, forceQuit, back, showHelp,
	up, down, left, right, top, bottom,
	confirm, selectOne, selectAll, clearSelection,
	acceptSearchSuggestion, changeSource,
	nextPage, prevPage, nextBucket, prevBucket,
	open, openURL key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

// bind builds a binding whose help entry shows display next to help.
func bind(display, help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(display, help))
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit:                   bind("q", "quit", "q"),
		forceQuit:              bind("ctrl+c", "quit", "ctrl+c", "ctrl+d"),
		selectOne:              bind("space", "select one", " "),
		selectAll:              bind("tab", "select all", "ctrl+a", "tab", "*"),
		clearSelection:         bind("backspace", "clear selection", "backspace"),
		confirm:                bind("enter", "confirm", "enter"),
		open:                   bind(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("open"), "enter"),
		openURL:                bind("o", "open url", "o"),
		acceptSearchSuggestion: bind("tab", "accept suggestion", "tab"),
		back:                   bind("esc", "back", "esc"),
		up:                     bind("↑", "up", "up", "k"),
		down:                   bind("↓", "down", "down", "j"),
		left:                   bind("←", "left", "left", "h"),
		right:                  bind("→", "right", "right", "l"),
		top:                    bind("g", "top", "g"),
		bottom:                 bind("G", "bottom", "G"),
		nextPage:               bind("n", "next page", "n", "right"),
		prevPage:               bind("p", "prev page", "p", "left"),
		nextBucket:             bind("tab", "next site", "tab"),
		prevBucket:             bind("shift+tab", "prev site", "shift+tab"),
		changeSource:           bind("S", "change sites", "S"),
		showHelp:               bind("?", "help", "?"),
	}
}

// help returns the short and full binding sets for the current state.
func (k *statefulKeymap) help() (short, full []key.Binding) {
	both := func(bindings ...key.Binding) ([]key.Binding, []key.Binding) {
		return bindings, bindings
	}

	switch k.state {
	case loadingState:
		return both(k.forceQuit, k.back)

	case resumeState:
		return both(relabel(k.confirm, "resume session"), relabel(k.back, "start fresh"), k.quit)

	case sourcesState:
		search := relabel(k.confirm, "use selected")
		return []key.Binding{k.selectOne, k.selectAll, search},
			[]key.Binding{k.selectOne, k.selectAll, k.clearSelection, search, k.back}

	case searchState:
		return both(k.confirm, k.acceptSearchSuggestion, k.changeSource, k.forceQuit)

	case searchingState:
		return both(relabel(k.back, "cancel"), k.forceQuit)

	case recordsState:
		details := relabel(k.confirm, "details")
		return []key.Binding{details, k.nextBucket, k.nextPage, k.prevPage, k.changeSource, k.back},
			[]key.Binding{details, k.nextBucket, k.prevBucket, k.nextPage, k.prevPage, k.changeSource, k.back}

	case detailState:
		return both(k.open, k.openURL, k.back)

	case errorState:
		return both(k.back, k.quit)

	default:
		return nil, nil
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

// forList projects the shared bindings onto the bubbles list component.
func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:   k.up,
		CursorDown: k.down,
		NextPage:   k.right,
		PrevPage:   k.left,
		GoToStart:  k.top,
		GoToEnd:    k.bottom,

		// The list's own filtering stays off; search is a dedicated state.
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,

		ShowFullHelp:  k.showHelp,
		CloseFullHelp: k.showHelp,

		Quit:      k.quit,
		ForceQuit: k.forceQuit,
	}
}

// relabel swaps a binding's help description, keeping its keys.
func relabel(k key.Binding, description string) key.Binding {
	return key.NewBinding(key.WithKeys(k.Keys()...), key.WithHelp(k.Help().Key, description))
}

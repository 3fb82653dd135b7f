// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

type state int

const (
	loadingState state = iota
	errorState
	resumeState
	sourcesState
	searchState
	searchingState
	recordsState
	detailState
)

// transient states stay out of the navigation history, so going back never
// lands on a spinner or a one-shot prompt.
func (s state) transient() bool {
	switch s {
	case loadingState, searchingState, resumeState:
		return true
	}

	return false
}

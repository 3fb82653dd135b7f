// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vodhound/vodhound/internal/ui"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/open"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/query"
	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// The notifier sees every message: strings raise a notification,
	// ui.ClearNotificationMsg removes one.
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = tea.Batch(cmd, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			if b.cancelSearch != nil {
				b.cancelSearch()
			}
			return b, tea.Quit
		}

		// While an async op runs, only the states that can cancel or
		// recover keep reacting to keys.
		if b.busy && b.state != searchingState && b.state != errorState {
			return b, nil
		}

		if bubblesKey.Matches(msg, b.keymap.back) {
			return b.goBack(cmd)
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case resumeState:
		return b.updateResume(msg)
	case sourcesState:
		return b.updateSources(msg)
	case searchState:
		return b.updateSearch(msg)
	case searchingState:
		return b.updateSearching(msg)
	case recordsState:
		return b.updateRecords(msg)
	case detailState:
		return b.updateDetail(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

// goBack unwinds one workflow step, cleaning up whatever the current state
// holds open.
func (b *statefulBubble) goBack(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch b.state {
	case loadingState:
		if b.statesHistory.Len() == 0 {
			return b, tea.Quit
		}
	case searchState:
		b.inputC.SetValue("")
	case resumeState:
		// Declining the prompt starts a fresh session.
		b.pendingSnapshot = nil
		b.setState(searchState)
		return b, cmd
	case searchingState:
		if b.cancelSearch != nil {
			b.cancelSearch()
			b.cancelSearch = nil
		}
	case sourcesState:
		b.sourcesC.ResetSelected()
	case recordsState:
		b.recordsC.ResetSelected()
	case detailState:
		b.selectedRecord = nil
		b.playC.ResetSelected()
	}

	b.previousState()
	b.stopLoading()
	return b, cmd
}

// wrapCursor wraps list navigation around the edges: up from the first row
// selects the last, down from the last selects the first.
func (b *statefulBubble) wrapCursor(l *list.Model, msg tea.KeyMsg) bool {
	n := len(l.Items())
	if n == 0 {
		return false
	}

	switch {
	case bubblesKey.Matches(msg, b.keymap.up) && l.Index() == 0:
		l.Select(n - 1)
		return true
	case bubblesKey.Matches(msg, b.keymap.down) && l.Index() == n-1:
		l.Select(0)
		return true
	}

	return false
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if sources, ok := msg.([]source.Source); ok {
		b.selectedSources = sources
		b.stopLoading()

		// A keyword typed before any site was picked waits for this load.
		if b.pendingKeyword != "" {
			keyword := b.pendingKeyword
			b.pendingKeyword = ""
			return b, b.startSearch(keyword)
		}

		b.newState(searchState)
		return b, textinput.Blink
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateResume(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.confirm):
		snapshot := b.pendingSnapshot
		b.pendingSnapshot = nil

		if snapshot == nil || !b.store.Restore(snapshot) {
			b.setState(searchState)
			return b, ui.Notify("Could not restore the previous session")
		}

		log.Info("resumed session for " + b.store.Keyword())
		cmd := b.syncRecordsList()
		b.setState(recordsState)
		return b, cmd

	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	}

	return b, nil
}

func (b *statefulBubble) updateSources(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if b.wrapCursor(&b.sourcesC, keyMsg) {
			return b, nil
		}

		setAll := func(marked bool) {
			for _, item := range b.sourcesC.Items() {
				item := item.(*listItem)
				item.marked = marked

				p := item.internal.(*provider.Provider)
				if marked {
					b.selectedProviders[p] = struct{}{}
				} else {
					delete(b.selectedProviders, p)
				}
			}
		}

		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.selectAll):
			setAll(true)

		case bubblesKey.Matches(keyMsg, b.keymap.clearSelection):
			setAll(false)

		case bubblesKey.Matches(keyMsg, b.keymap.selectOne):
			item, ok := b.sourcesC.SelectedItem().(*listItem)
			if !ok {
				break
			}

			p := item.internal.(*provider.Provider)
			if item.marked {
				delete(b.selectedProviders, p)
			} else {
				b.selectedProviders[p] = struct{}{}
			}
			item.toggleMark()

		case bubblesKey.Matches(keyMsg, b.keymap.confirm):
			item, ok := b.sourcesC.SelectedItem().(*listItem)
			if !ok {
				break
			}

			// With nothing marked, confirm acts on the hovered site.
			chosen := lo.Keys(b.selectedProviders)
			if len(chosen) == 0 {
				chosen = []*provider.Provider{item.internal.(*provider.Provider)}
			}

			if len(chosen) == 1 {
				b.progressStatus = "Loading " + chosen[0].Name
			} else {
				b.progressStatus = "Loading " + util.Quantify(len(chosen), "site", "sites")
			}

			b.newState(loadingState)
			return b, tea.Batch(b.startLoading(), b.loadSources(chosen), b.waitForSourcesLoaded(), b.spinnerC.Tick)
		}
	}

	b.sourcesC, cmd = b.sourcesC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.changeSource):
			b.newState(sourcesState)
			return b, b.loadProviders()

		case bubblesKey.Matches(keyMsg, b.keymap.confirm) && b.inputC.Value() != "":
			keyword := b.inputC.Value()
			go query.Remember(keyword, 1)

			// No explicit site selection fans out to every enabled site.
			if len(b.selectedSources) == 0 {
				b.pendingKeyword = keyword
				b.progressStatus = "Loading sites"
				b.newState(loadingState)
				return b, tea.Batch(b.startLoading(), b.loadSources(provider.All()), b.waitForSourcesLoaded(), b.spinnerC.Tick)
			}

			return b, b.startSearch(keyword)

		case bubblesKey.Matches(keyMsg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.inputC.SetCursor(len(b.inputC.Value()))
			b.searchSuggestion = mo.None[string]()
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)
	b.refreshSuggestion()

	return b, cmd
}

// refreshSuggestion recomputes the inline completion for the current input.
func (b *statefulBubble) refreshSuggestion() {
	value := b.inputC.Value()
	if value != "" {
		if suggestion, ok := query.Suggest(value).Get(); ok && suggestion != value {
			b.searchSuggestion = mo.Some(suggestion)
			return
		}
	}

	b.searchSuggestion = mo.None[string]()
}

func (b *statefulBubble) updateSearching(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case outcomeMsg:
		b.doneSources++
		b.outcomeRows = append(b.outcomeRows, b.formatOutcomeRow(msg.outcome))

		if msg.outcome.Err != nil {
			log.Warnf("site %s failed: %s", msg.outcome.DisplayName, msg.outcome.Err)
		} else if err := b.store.ApplyOutcome(msg.outcome, session.ModeAppend); err != nil {
			log.Warn(err)
		} else {
			b.persistSession()
		}

		stats := b.store.Statistics()
		b.progressStatus = fmt.Sprintf("%d/%d sites answered · %s so far",
			b.doneSources, b.totalSources, util.Quantify(stats.Records, "record", "records"))

		return b, b.awaitOutcome()

	case searchDoneMsg:
		b.cancelSearch = nil

		if len(b.store.AvailableBuckets()) == 0 {
			b.previousState()
			return b, ui.Notify("No results found")
		}

		cmd = b.syncRecordsList()
		b.newState(recordsState)
		return b, cmd
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.wrapCursor(&b.recordsC, msg) {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.changeSource):
			b.newState(sourcesState)
			return b, b.loadProviders()

		case bubblesKey.Matches(msg, b.keymap.nextBucket):
			return b, b.switchBucket(1)

		case bubblesKey.Matches(msg, b.keymap.prevBucket):
			return b, b.switchBucket(-1)

		case bubblesKey.Matches(msg, b.keymap.nextPage):
			return b, b.navigatePage(1)

		case bubblesKey.Matches(msg, b.keymap.prevPage):
			return b, b.navigatePage(-1)

		case bubblesKey.Matches(msg, b.keymap.confirm, b.keymap.selectOne):
			item, ok := b.recordsC.SelectedItem().(*listItem)
			if !ok {
				break
			}

			record := item.internal.(*source.Record)
			go query.Remember(record.Title, 2)
			return b, tea.Batch(b.recordsC.StartSpinner(), b.fetchDetail(record))
		}

	case detailMsg:
		b.busy = false
		b.recordsC.StopSpinner()
		b.selectedRecord = msg.record
		cmd = b.syncDetail()
		b.newState(detailState)
		return b, cmd

	case pageLoadedMsg:
		b.busy = false
		b.recordsC.StopSpinner()
		return b, b.syncRecordsList()
	}

	b.recordsC, cmd = b.recordsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if b.wrapCursor(&b.playC, keyMsg) {
			return b, nil
		}

		if bubblesKey.Matches(keyMsg, b.keymap.open, b.keymap.openURL) {
			item, ok := b.playC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}

			entry := item.internal.(*playEntry)
			if err := open.Start(entry.Episode.URL); err != nil {
				b.raiseError(err)
				return b, nil
			}

			return b, ui.Notify(fmt.Sprintf("Opened %s", entry.Episode.Name))
		}
	}

	b.playC, cmd = b.playC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.quit) {
		return b, tea.Quit
	}

	return b, nil
}

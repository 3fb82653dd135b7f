// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/search"
	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
)

// outcomeMsg carries one completed per-site search reply off the fan-out stream.
type outcomeMsg struct {
	outcome source.Outcome
}

// searchDoneMsg signals that every site in the fan-out has answered.
type searchDoneMsg struct{}

// detailMsg carries a fully resolved record for the detail view.
type detailMsg struct {
	record *source.Record
}

// pageLoadedMsg signals that a replace-mode page fetch has been applied.
type pageLoadedMsg struct{}

func (b *statefulBubble) loadProviders() tea.Cmd {
	rows := func(ps []*provider.Provider) []list.Item {
		items := lo.Map(ps, func(p *provider.Provider, _ int) list.Item {
			return &listItem{internal: p}
		})
		slices.SortFunc(items, func(x, y list.Item) int {
			return strings.Compare(x.FilterValue(), y.FilterValue())
		})
		return items
	}

	// Builtins first, then Lua adapters, each block alphabetized.
	return b.sourcesC.SetItems(append(rows(provider.Builtins()), rows(provider.Customs())...))
}

func (b *statefulBubble) loadSources(ps []*provider.Provider) tea.Cmd {
	return func() tea.Msg {
		// Index-addressed so the provider order survives the parallel load.
		sources := make([]source.Source, len(ps))

		var wg sync.WaitGroup
		wg.Add(len(ps))
		for i, p := range ps {
			go func() {
				defer wg.Done()

				log.Info("loading site " + p.ID)
				s, err := p.CreateSource()
				if err != nil {
					// A broken adapter must not take the whole fan-out down.
					log.Error(err)
					return
				}

				log.Info("site " + p.ID + " loaded")
				sources[i] = s
			}()
		}
		wg.Wait()

		loaded := lo.Compact(sources)
		if len(loaded) == 0 && len(ps) > 0 {
			b.errorChannel <- errors.New("failed to load any sites")
			return nil
		}

		b.sourcesLoadedChannel <- loaded
		return nil
	}
}

func (b *statefulBubble) waitForSourcesLoaded() tea.Cmd {
	return func() tea.Msg {
		select {
		case sources := <-b.sourcesLoadedChannel:
			return sources
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// startSearch opens a new session epoch and fans the keyword out to every
// selected site. Outcomes arrive one message at a time in completion order.
func (b *statefulBubble) startSearch(keyword string) tea.Cmd {
	targets := lo.Map(b.selectedSources, func(s source.Source, _ int) search.Target {
		return search.Target{Source: s}
	})
	b.orchestrator = search.New(targets)

	ctx, cancel := context.WithCancel(context.Background())
	epoch := b.store.StartSearch(keyword)

	outcomes, err := b.orchestrator.Stream(ctx, keyword, 1, epoch)
	if err != nil {
		cancel()
		b.raiseError(err)
		return nil
	}

	log.Info("searching for " + keyword)

	b.cancelSearch = cancel
	b.outcomes = outcomes
	b.doneSources = 0
	b.totalSources = len(b.selectedSources)
	b.outcomeRows = nil
	b.progressStatus = fmt.Sprintf("Searching %s", util.Quantify(b.totalSources, "site", "sites"))

	b.newState(searchingState)
	return tea.Batch(b.awaitOutcome(), b.spinnerC.Tick)
}

func (b *statefulBubble) awaitOutcome() tea.Cmd {
	return func() tea.Msg {
		outcome, ok := <-b.outcomes
		if !ok {
			return searchDoneMsg{}
		}
		return outcomeMsg{outcome: outcome}
	}
}

// sourceFor resolves the live adapter behind a bucket. Resumed sessions start
// with no adapters loaded, so missing ones are recreated from the registry.
func (b *statefulBubble) sourceFor(bucketName string) (source.Source, error) {
	id, ok := b.store.ResolveSource(bucketName)
	if !ok {
		return nil, fmt.Errorf("no site registered for %s", bucketName)
	}

	for _, s := range b.selectedSources {
		if s.ID() == id {
			return s, nil
		}
	}

	p, ok := provider.Get(id)
	if !ok {
		return nil, fmt.Errorf("site not found: %s", id)
	}

	s, err := p.CreateSource()
	if err != nil {
		return nil, err
	}

	b.selectedSources = append(b.selectedSources, s)
	return s, nil
}

// fetchDetail resolves the full metadata of a record. Records that already
// carry play sources pass through untouched.
func (b *statefulBubble) fetchDetail(record *source.Record) tea.Cmd {
	b.busy = true
	return func() tea.Msg {
		if record.PlaySources.Total() > 0 {
			return detailMsg{record: record}
		}

		s, err := b.sourceFor(record.Platform)
		if err != nil {
			return err
		}

		detailer, ok := s.(source.Detailer)
		if !ok {
			return detailMsg{record: record}
		}

		log.Info("fetching detail for " + record.Title)
		detailed, err := detailer.Detail(context.Background(), b.store.Keyword(), record.ID)
		if err != nil {
			return err
		}

		return detailMsg{record: detailed}
	}
}

// navigatePage moves the active bucket by offset pages. Append-mode buckets
// window locally when their records already cover the target page; everything
// else goes back upstream as a replace-mode fetch.
func (b *statefulBubble) navigatePage(offset int) tea.Cmd {
	pagination, ok := b.store.CurrentPagination()
	if !ok {
		return nil
	}

	target := pagination.CurrentPage + offset
	if target < 1 || (pagination.TotalPages > 0 && target > pagination.TotalPages) {
		return nil
	}

	name := b.store.Active()
	bucket, ok := b.store.Bucket(name)
	if !ok {
		return nil
	}

	if bucket.Mode == session.ModeAppend && (target-1)*b.store.PageSize() < len(bucket.Records) {
		if err := b.store.SetPage(name, target); err != nil {
			b.raiseError(err)
			return nil
		}

		b.persistSession()
		return b.syncRecordsList()
	}

	b.busy = true
	return tea.Batch(b.recordsC.StartSpinner(), b.fetchPage(name, target))
}

func (b *statefulBubble) fetchPage(name string, page int) tea.Cmd {
	return func() tea.Msg {
		s, err := b.sourceFor(name)
		if err != nil {
			return err
		}

		log.Infof("fetching page %d of %s", page, name)
		outcome := search.FetchPage(context.Background(), search.Target{Source: s}, b.store.Keyword(), page, b.store.PageSize(), b.store.Epoch())
		if outcome.Err != nil {
			return outcome.Err
		}

		if err := b.store.ApplyOutcome(outcome, session.ModeReplace); err != nil {
			return err
		}

		b.persistSession()
		return pageLoadedMsg{}
	}
}

// switchBucket rotates the active bucket by offset with wrap-around.
func (b *statefulBubble) switchBucket(offset int) tea.Cmd {
	infos := b.store.AvailableBuckets()
	if len(infos) < 2 {
		return nil
	}

	active := b.store.Active()
	index := lo.IndexOf(lo.Map(infos, func(info session.BucketInfo, _ int) string {
		return info.Name
	}), active)

	next := (index + offset + len(infos)) % len(infos)
	if err := b.store.SwitchActiveBucket(infos[next].Name, false); err != nil {
		b.raiseError(err)
		return nil
	}

	b.persistSession()
	return b.syncRecordsList()
}

// persistSession snapshots the store through the gateway. Persistence is
// best-effort, a failed save never interrupts navigation.
func (b *statefulBubble) persistSession() {
	if err := b.gateway.Save(b.store.Snapshot()); err != nil {
		log.Warn(err)
	}
}

// syncRecordsList mirrors the store's visible page into the records list.
func (b *statefulBubble) syncRecordsList() tea.Cmd {
	records := b.store.VisibleSlice()

	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = &listItem{
			internal: record,
		}
	}

	title := fmt.Sprintf("Results - %s", b.store.Keyword())
	if pagination, ok := b.store.CurrentPagination(); ok && pagination.TotalPages > 1 {
		title = fmt.Sprintf("%s · page %d/%d", title, pagination.CurrentPage, pagination.TotalPages)
	}

	b.recordsC.Title = title
	b.recordsC.ResetSelected()
	return b.recordsC.SetItems(items)
}

// syncDetail rebuilds the detail header and the episodes list for the
// currently selected record.
func (b *statefulBubble) syncDetail() tea.Cmd {
	record := b.selectedRecord
	if record == nil {
		return nil
	}

	var items []list.Item
	for _, format := range record.PlaySources.Formats() {
		for _, episode := range record.PlaySources[format] {
			items = append(items, &listItem{
				internal: &playEntry{Format: format, Episode: episode},
			})
		}
	}

	b.detailHeader = b.renderDetailHeader(record)
	b.playC.Title = fmt.Sprintf("Episodes - %s", record.Platform)
	b.playC.SetSize(b.listWidth, util.Max(b.listHeight-len(b.detailHeader), 5))
	b.playC.ResetSelected()
	return b.playC.SetItems(items)
}

// restoreSession rebuilds the store from the persisted snapshot and jumps
// straight to the results view. Returns false when nothing fresh is stored.
func (b *statefulBubble) restoreSession() bool {
	snapshot, ok := b.gateway.Load()
	if !ok {
		return false
	}

	if !b.store.Restore(snapshot) {
		return false
	}

	log.Info("resumed session for " + b.store.Keyword())
	b.syncRecordsList()
	b.newState(recordsState)
	return true
}

// offerResume stages the persisted snapshot for the resume prompt.
func (b *statefulBubble) offerResume() bool {
	snapshot, ok := b.gateway.Load()
	if !ok {
		return false
	}

	b.pendingSnapshot = snapshot
	return true
}

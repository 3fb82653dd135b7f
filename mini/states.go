package mini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/open"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/query"
	"github.com/vodhound/vodhound/search"
	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/util"
)

type state int

const (
	searchState state = iota + 1
	bucketSelectState
	recordSelectState
	detailState
	quitState
)

const (
	optionBack      = "Back"
	optionNewSearch = "New search"
	optionQuit      = "Quit"
)

func title(text string) {
	fmt.Println(style.Title(text))
}

func fail(text string) {
	fmt.Printf("%s %s\n", icon.Get(icon.Fail), text)
}

func progress(text string) (eraser func()) {
	return util.PrintErasable(fmt.Sprintf("%s %s", icon.Get(icon.Progress), text))
}

// playEntry pairs one playable episode with the container format it belongs to.
type playEntry struct {
	Format  string
	Episode source.PlayEpisode
}

func flattenPlaySources(ps source.PlaySources) []playEntry {
	var entries []playEntry
	for _, format := range ps.Formats() {
		for _, episode := range ps[format] {
			entries = append(entries, playEntry{Format: format, Episode: episode})
		}
	}

	return entries
}

func formatRecordOption(record *source.Record) string {
	parts := []string{record.Title}

	for _, part := range []string{record.Year, record.TypeName, record.Status} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, " • ")
}

// ensureSources lazily loads every enabled site adapter. A broken custom
// script is skipped so one bad adapter cannot block the whole flow.
func (m *mini) ensureSources() error {
	if len(m.sources) > 0 {
		return nil
	}

	erase := progress("Loading sites..")
	defer erase()

	// Index-addressed so the provider order survives the parallel load.
	providers := provider.All()
	sources := make([]source.Source, len(providers))

	var wg sync.WaitGroup
	wg.Add(len(providers))
	for i, p := range providers {
		go func() {
			defer wg.Done()

			s, err := p.CreateSource()
			if err != nil {
				log.Warnf("skipping site %s: %s", p.Name, err)
				return
			}

			sources[i] = s
		}()
	}
	wg.Wait()

	m.sources = lo.Compact(sources)
	if len(m.sources) == 0 {
		return errors.New("no sites available")
	}

	return nil
}

func (m *mini) runSearch(keyword string) error {
	if err := m.ensureSources(); err != nil {
		return err
	}

	targets := lo.Map(m.sources, func(s source.Source, _ int) search.Target {
		return search.Target{Source: s}
	})

	orchestrator := search.New(targets)
	epoch := m.store.StartSearch(keyword)

	outcomes, err := orchestrator.Stream(context.Background(), keyword, 1, epoch)
	if err != nil {
		return err
	}

	erase := progress(fmt.Sprintf("Searching %s..", util.Quantify(len(targets), "site", "sites")))
	for outcome := range outcomes {
		if outcome.Err != nil {
			log.Warnf("site %s failed: %s", outcome.DisplayName, outcome.Err)
			continue
		}

		if err := m.store.ApplyOutcome(outcome, session.ModeAppend); err != nil {
			log.Warn(err)
			continue
		}

		if err := m.gateway.Save(m.store.Snapshot()); err != nil {
			log.Warn(err)
		}
	}
	erase()

	go query.Remember(keyword, 1)
	return nil
}

func (m *mini) handleSearchState() error {
	title("Search Videos")

	var searchLoop func() error
	searchLoop = func() error {
		var keyword string
		prompt := &survey.Input{
			Message: "Keyword:",
			Suggest: query.SuggestMany,
		}

		if err := survey.AskOne(prompt, &keyword, survey.WithValidator(survey.Required)); err != nil {
			return err
		}

		if err := m.runSearch(keyword); err != nil {
			return err
		}

		if len(m.store.AvailableBuckets()) == 0 {
			fail("No search results found")
			return searchLoop()
		}

		m.newState(bucketSelectState)
		return nil
	}

	return searchLoop()
}

func (m *mini) handleBucketSelectState() error {
	infos := m.store.AvailableBuckets()
	if len(infos) == 0 {
		m.newState(searchState)
		return nil
	}

	options := lo.Map(infos, func(info session.BucketInfo, _ int) string {
		return fmt.Sprintf("%s (%s)", info.Name, util.Quantify(info.Count, "record", "records"))
	})
	options = append(options, optionNewSearch, optionQuit)

	var index int
	prompt := &survey.Select{
		Message:  fmt.Sprintf("Results for %q:", m.store.Keyword()),
		Options:  options,
		PageSize: 15,
	}

	if err := survey.AskOne(prompt, &index); err != nil {
		return err
	}

	switch options[index] {
	case optionNewSearch:
		m.newState(searchState)
		return nil
	case optionQuit:
		m.newState(quitState)
		return nil
	}

	if err := m.store.SwitchActiveBucket(infos[index].Name, false); err != nil {
		return err
	}

	if err := m.gateway.Save(m.store.Snapshot()); err != nil {
		log.Warn(err)
	}

	m.newState(recordSelectState)
	return nil
}

func (m *mini) handleRecordSelectState() error {
	bucket, ok := m.store.Bucket(m.store.Active())
	if !ok {
		m.newState(searchState)
		return nil
	}

	limit := lo.Min([]int{len(bucket.Records), viper.GetInt(key.MiniSearchLimit)})
	records := bucket.Records[:limit]

	options := lo.Map(records, func(record *source.Record, _ int) string {
		return formatRecordOption(record)
	})
	options = append(options, optionBack, optionQuit)

	var index int
	prompt := &survey.Select{
		Message:  fmt.Sprintf("%s:", bucket.DisplayName),
		Options:  options,
		PageSize: 15,
	}

	if err := survey.AskOne(prompt, &index); err != nil {
		return err
	}

	switch options[index] {
	case optionBack:
		m.previousState()
		return nil
	case optionQuit:
		m.newState(quitState)
		return nil
	}

	m.selectedRecord = records[index]
	go query.Remember(records[index].Title, 2)
	m.newState(detailState)
	return nil
}

func (m *mini) handleDetailState() error {
	record := m.selectedRecord
	if record == nil {
		m.previousState()
		return nil
	}

	resolved, err := m.resolveDetail(record)
	if err != nil {
		fail(err.Error())
		m.selectedRecord = nil
		m.previousState()
		return nil
	}

	m.printDetail(resolved)

	episodes := flattenPlaySources(resolved.PlaySources)
	if len(episodes) == 0 {
		fail("No play sources found")
		m.selectedRecord = nil
		m.previousState()
		return nil
	}

	options := lo.Map(episodes, func(entry playEntry, _ int) string {
		if entry.Format == "" {
			return entry.Episode.Name
		}
		return fmt.Sprintf("%s (%s)", entry.Episode.Name, entry.Format)
	})
	options = append(options, optionBack, optionQuit)

	var index int
	prompt := &survey.Select{
		Message:  "Open episode:",
		Options:  options,
		PageSize: 15,
	}

	if err := survey.AskOne(prompt, &index); err != nil {
		return err
	}

	switch options[index] {
	case optionBack:
		m.selectedRecord = nil
		m.previousState()
		return nil
	case optionQuit:
		m.newState(quitState)
		return nil
	}

	entry := episodes[index]
	if err := open.Start(entry.Episode.URL); err != nil {
		fail(err.Error())
		return nil
	}

	fmt.Printf("%s Opened %s\n", icon.Get(icon.Success), entry.Episode.Name)
	return nil
}

func (m *mini) resolveDetail(record *source.Record) (*source.Record, error) {
	if record.PlaySources.Total() > 0 {
		return record, nil
	}

	cacheKey := record.Platform + "/" + record.ID
	if cached, ok := m.cachedDetails[cacheKey]; ok {
		return cached, nil
	}

	s, err := m.sourceFor(record.Platform)
	if err != nil {
		return nil, err
	}

	detailer, ok := s.(source.Detailer)
	if !ok {
		return record, nil
	}

	erase := progress("Fetching detail..")
	defer erase()

	detailed, err := detailer.Detail(context.Background(), m.store.Keyword(), record.ID)
	if err != nil {
		return nil, err
	}

	m.cachedDetails[cacheKey] = detailed
	return detailed, nil
}

// sourceFor resolves the live adapter behind a bucket. Resumed sessions start
// with no adapters loaded, so missing ones are recreated from the registry.
func (m *mini) sourceFor(platform string) (source.Source, error) {
	id, ok := m.store.ResolveSource(platform)
	if !ok {
		return nil, fmt.Errorf("no site registered for %s", platform)
	}

	for _, s := range m.sources {
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

	m.sources = append(m.sources, s)
	return s, nil
}

func (m *mini) printDetail(record *source.Record) {
	util.ClearScreen()
	title(record.Title)

	var meta []string
	for _, part := range []string{record.Year, record.Area, record.TypeName, record.Status} {
		if part != "" {
			meta = append(meta, part)
		}
	}
	if len(meta) > 0 {
		fmt.Println(strings.Join(meta, " • "))
	}

	if record.Actor != "" {
		fmt.Println(style.Faint("Cast: " + record.Actor))
	}

	if record.ViewCount > 0 {
		fmt.Println(style.Faint(util.Quantify(record.ViewCount, "view", "views")))
	}

	if record.Description != "" {
		fmt.Println()
		fmt.Println(wrap.String(record.Description, truncateAt))
	}

	fmt.Println()
}

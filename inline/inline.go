// Package inline implements the scriptable one-shot mode used from shell pipelines.
package inline

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/query"
	"github.com/vodhound/vodhound/search"
	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
)

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if options.Page < 1 {
		options.Page = 1
	}

	targets := lo.Map(options.Sources, func(src source.Source, _ int) search.Target {
		return search.Target{Source: src}
	})

	orchestrator := search.New(targets)
	store := session.New()

	// Step 1: Fan the keyword out to every requested source.
	epoch := store.StartSearch(options.Keyword)
	outcomes, err := orchestrator.Stream(ctx, options.Keyword, options.Page, epoch)
	if err != nil {
		return err
	}

	// Page 1 builds buckets from scratch; deeper pages hold exactly the
	// requested page, so the store swaps records wholesale.
	mode := session.ModeAppend
	if options.Page > 1 {
		mode = session.ModeReplace
	}

	// Step 2: Fold outcomes into the session as they complete.
	var failed []*Failure
	for outcome := range outcomes {
		if outcome.Err != nil {
			failed = append(failed, &Failure{Site: outcome.DisplayName, Error: outcome.Err.Error()})
			continue
		}

		if err := store.ApplyOutcome(outcome, mode); err != nil {
			failed = append(failed, &Failure{Site: outcome.DisplayName, Error: err.Error()})
		}
	}

	_ = query.Remember(options.Keyword, 1)

	// Step 3: Apply record selection logic if a picker is defined.
	var picked *source.Record
	if options.RecordPicker.IsPresent() {
		picked = options.RecordPicker.MustGet()(collectRecords(store))
		if picked == nil {
			if options.Json {
				return writeJson(options.Out, store, nil, failed, options)
			}
			return nil // Nothing matched
		}

		if options.IncludePlay && picked.PlaySources.Total() == 0 {
			picked = resolvePlay(ctx, store, options, picked)
		}
	}

	// Step 4: Dispatch the processed results to the configured output writer.
	if options.Json {
		return writeJson(options.Out, store, picked, failed, options)
	}

	if picked != nil {
		printRecord(options, picked)
		return nil
	}

	for _, info := range store.AvailableBuckets() {
		bucket, ok := store.Bucket(info.Name)
		if !ok {
			continue
		}

		fmt.Fprintf(options.Out, "%s (%d/%d)\n", info.Name, info.Count, bucket.Page.TotalCount)
		for _, record := range bucket.Records {
			fmt.Fprintf(options.Out, "  %s\n", describe(record))
		}
	}

	return nil
}

// collectRecords flattens the session's buckets in creation order, which is
// arrival order of the underlying outcomes.
func collectRecords(store *session.Store) []*source.Record {
	var records []*source.Record
	for _, info := range store.AvailableBuckets() {
		if bucket, ok := store.Bucket(info.Name); ok {
			records = append(records, bucket.Records...)
		}
	}

	return records
}

// resolvePlay asks the record's source for full details when the listing
// entry came back without play sources.
func resolvePlay(ctx context.Context, store *session.Store, options *Options, record *source.Record) *source.Record {
	id, ok := store.ResolveSource(record.Platform)
	if !ok {
		return record
	}

	src, ok := lo.Find(options.Sources, func(s source.Source) bool {
		return s.ID() == id
	})
	if !ok {
		return record
	}

	detailer, ok := src.(source.Detailer)
	if !ok {
		return record
	}

	detailed, err := detailer.Detail(ctx, options.Keyword, record.ID)
	if err != nil {
		log.Warnf("failed to resolve play sources for %s: %v", record.Title, err)
		return record
	}

	return detailed
}

func printRecord(options *Options, record *source.Record) {
	if options.IncludePlay && record.PlaySources.Total() > 0 {
		for _, format := range record.PlaySources.Formats() {
			for _, episode := range record.PlaySources[format] {
				fmt.Fprintln(options.Out, episode.URL)
			}
		}
		return
	}

	fmt.Fprintln(options.Out, describe(record))
}

func describe(record *source.Record) string {
	out := record.Title
	if record.Year != "" {
		out += fmt.Sprintf(" [%s]", record.Year)
	}
	if record.TypeName != "" {
		out += fmt.Sprintf(" (%s)", record.TypeName)
	}

	return out
}

// Package search implements the concurrent fan-out of one keyword query to
// every enabled source.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/source"
)

var (
	// ErrEmptyKeyword marks a search submitted with nothing to search for.
	ErrEmptyKeyword = errors.New("search keyword is empty")

	// ErrNoSourcesAvailable marks a fan-out requested with zero enabled sources.
	ErrNoSourcesAvailable = errors.New("no sources available")
)

// Target pairs a search adapter with its per-call deadline.
type Target struct {
	Source  source.Source
	Timeout time.Duration
}

func (t Target) timeout() time.Duration {
	if t.Timeout > 0 {
		return t.Timeout
	}

	if seconds := viper.GetInt(key.SearchTimeout); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return 15 * time.Second
}

// Orchestrator fans queries out to a fixed set of targets. It holds no
// result state; outcomes stream to the caller in completion order.
type Orchestrator struct {
	targets  []Target
	pageSize int
}

// New builds an orchestrator over the given targets with the session page size.
func New(targets []Target) *Orchestrator {
	pageSize := viper.GetInt(key.SearchPageSize)
	if pageSize < 1 || pageSize > source.MaxPageSize {
		pageSize = source.DefaultPageSize
	}

	return &Orchestrator{
		targets:  targets,
		pageSize: pageSize,
	}
}

// PageSize returns the records-per-page contract this orchestrator was built with.
func (o *Orchestrator) PageSize() int {
	return o.pageSize
}

// Stream issues one adapter call per target, all concurrently, each under its
// own deadline. The returned channel delivers outcomes in completion order
// and is closed after the last target finishes. A failing target yields an
// outcome with Err set; it never aborts its siblings. Epoch is stamped onto
// every outcome so the store can drop results of superseded searches.
func (o *Orchestrator) Stream(ctx context.Context, keyword string, page int, epoch uint64) (<-chan source.Outcome, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	if len(o.targets) == 0 {
		return nil, ErrNoSourcesAvailable
	}

	log.WithFields("fanning out search", log.Fields{
		"keyword": keyword,
		"page":    page,
		"sources": len(o.targets),
		"epoch":   epoch,
	})

	outcomes := make(chan source.Outcome, len(o.targets))

	var wg sync.WaitGroup
	for _, target := range o.targets {
		wg.Add(1)

		go func(t Target) {
			defer wg.Done()
			outcomes <- call(ctx, t, keyword, page, o.pageSize, epoch)
		}(target)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return outcomes, nil
}

// FetchPage issues one targeted single-source call. Used for page navigation
// and bucket reloads, where the store applies the outcome in replace mode.
func FetchPage(ctx context.Context, target Target, keyword string, page, pageSize int, epoch uint64) source.Outcome {
	keyword = strings.TrimSpace(keyword)
	return call(ctx, target, keyword, page, pageSize, epoch)
}

// call runs a single adapter call to completion, converting every failure
// mode, panics included, into a failed outcome.
func call(ctx context.Context, t Target, keyword string, page, pageSize int, epoch uint64) (outcome source.Outcome) {
	outcome = source.Outcome{
		SourceID:    t.Source.ID(),
		DisplayName: t.Source.Name(),
		Epoch:       epoch,
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("adapter panicked: %v", r)
			log.Errorf("source %s panicked: %v", outcome.SourceID, r)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, t.timeout())
	defer cancel()

	started := time.Now()
	reply, err := t.Source.Search(callCtx, keyword, page, pageSize)
	outcome.Elapsed = time.Since(started)

	if err != nil {
		outcome.Err = err
		log.WithFields("source failed", log.Fields{"source": outcome.SourceID, "err": err})
		return outcome
	}

	// Display names are authoritative only once a response carries one.
	if reply.SiteName != "" {
		outcome.DisplayName = reply.SiteName
	}

	outcome.Records = reply.Records
	outcome.Pagination = reply.Pagination
	return outcome
}

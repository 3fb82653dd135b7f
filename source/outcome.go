// Package source defines the domain models and the adapter contract for
// VOD discovery across heterogeneous upstream sites.
package source

import "time"

// Reply is one page of results as returned by an adapter.
type Reply struct {
	// SiteName is the display name the upstream reports for itself.
	SiteName string

	Records []*Record

	// Pagination is upstream-reported when non-nil. Upstream pagination is
	// authoritative; callers must not recompute over it.
	Pagination *PageState

	// TotalCount is the upstream total when known, 0 otherwise.
	TotalCount int
}

// Outcome is the terminal result of one adapter call inside a fan-out.
// Err == nil means success; a failed outcome carries no records.
type Outcome struct {
	SourceID    string
	DisplayName string

	// Epoch ties the outcome to the search generation that issued it.
	Epoch uint64

	Records    []*Record
	Pagination *PageState
	Elapsed    time.Duration
	Err        error
}

// Success reports whether the adapter call completed without error.
func (o Outcome) Success() bool {
	return o.Err == nil
}

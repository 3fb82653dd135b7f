// Package source defines the domain models and the adapter contract for
// VOD discovery across heterogeneous upstream sites.
package source

import (
	"context"
	"fmt"
)

const (
	// DefaultPageSize is the records-per-page contract for a session.
	DefaultPageSize = 20

	// MaxPageSize bounds what an adapter may be asked for in a single call.
	MaxPageSize = 100
)

// Source defines the required capabilities for a VOD search adapter.
type Source interface {
	// ID returns the unique identifier of the source.
	ID() string

	// Name returns the display name of the platform the source searches.
	Name() string

	// Search executes a keyword query against the upstream site and returns
	// one page of normalized records. Implementations honor ctx cancellation
	// and never retain the returned reply.
	Search(ctx context.Context, keyword string, page, pageSize int) (*Reply, error)
}

// Detailer is the optional capability of resolving a single record with its
// full metadata. Sources whose search responses are already complete may
// implement it as a re-search.
type Detailer interface {
	// Detail resolves the record identified by id within the result set of
	// keyword. The keyword is required because collection APIs have no
	// by-id endpoint.
	Detail(ctx context.Context, keyword, id string) (*Record, error)
}

// ValidatePageArgs guards the adapter call boundary.
func ValidatePageArgs(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", page)
	}

	if pageSize < 1 || pageSize > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d, got %d", MaxPageSize, pageSize)
	}

	return nil
}

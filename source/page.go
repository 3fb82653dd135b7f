// Package source defines the domain models and the adapter contract for
// VOD discovery across heterogeneous upstream sites.
package source

// PageState describes where a bucket of records sits inside the upstream
// result set.
type PageState struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// NewPageState computes pagination locally for upstreams that do not report
// their own. An empty result set still exposes a single page.
func NewPageState(page, pageSize, totalCount int) PageState {
	totalPages := 1
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return PageState{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}

// HasNext reports whether a further page exists upstream.
func (p PageState) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether the page can move backwards.
func (p PageState) HasPrevious() bool {
	return p.CurrentPage > 1
}

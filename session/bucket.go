package session

import (
	"github.com/vodhound/vodhound/source"
)

// LoadMode records which loading strategy last wrote a bucket. The two modes
// store records in incompatible shapes under the same field, so the tag is
// explicit state, never inferred from record counts.
type LoadMode string

const (
	// ModeAppend grows the bucket's full record history across calls.
	ModeAppend LoadMode = "append"

	// ModeReplace treats the bucket's records as exactly one page.
	ModeReplace LoadMode = "replace"
)

// Bucket is the accumulated result set and pagination state for one source
// within a search session.
type Bucket struct {
	DisplayName string           `json:"display_name"`
	SourceID    string           `json:"source_id"`
	Records     []*source.Record `json:"records"`
	Page        source.PageState `json:"page"`
	Mode        LoadMode         `json:"mode"`
}

// BucketInfo is the presentation-boundary listing entry for one bucket.
type BucketInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BucketStats aggregates one bucket for the statistics read surface.
type BucketStats struct {
	Name       string         `json:"name"`
	SourceID   string         `json:"source_id"`
	Count      int            `json:"count"`
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}

// Stats summarizes the whole session. Recomputed on demand, never persisted.
type Stats struct {
	Buckets   int           `json:"buckets"`
	Records   int           `json:"records"`
	Total     int           `json:"total"`
	PerBucket []BucketStats `json:"per_bucket"`
}

func (b *Bucket) stats() BucketStats {
	categories := make(map[string]int)
	for _, record := range b.Records {
		if record.TypeName != "" {
			categories[record.TypeName]++
		}
	}

	return BucketStats{
		Name:       b.DisplayName,
		SourceID:   b.SourceID,
		Count:      len(b.Records),
		Total:      b.Page.TotalCount,
		Categories: categories,
	}
}

func (b *Bucket) clone() *Bucket {
	records := make([]*source.Record, len(b.Records))
	copy(records, b.Records)

	clone := *b
	clone.Records = records
	return &clone
}

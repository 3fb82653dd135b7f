// Package inline implements the scriptable one-shot mode used from shell pipelines.
package inline

import (
	"encoding/json"
	"io"

	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
)

// BucketData is one source's result set in the machine-readable output.
type BucketData struct {
	// Site is the display name the upstream reports for itself.
	Site string `json:"site"`
	// SiteID is the registry identifier of the source.
	SiteID     string            `json:"site_id"`
	Count      int               `json:"count"`
	Pagination *source.PageState `json:"pagination,omitempty"`
	Records    []*source.Record  `json:"records"`
}

// Failure describes one source that produced no bucket.
type Failure struct {
	Site  string `json:"site"`
	Error string `json:"error"`
}

type Output struct {
	Query   string         `json:"query"`
	Page    int            `json:"page"`
	Buckets []*BucketData  `json:"buckets"`
	Picked  *source.Record `json:"picked,omitempty"`
	Failed  []*Failure     `json:"failed,omitempty"`
	Stats   *session.Stats `json:"stats,omitempty"`
}

func writeJson(out io.Writer, store *session.Store, picked *source.Record, failed []*Failure, options *Options) error {
	buckets := make([]*BucketData, 0)
	for _, info := range store.AvailableBuckets() {
		bucket, ok := store.Bucket(info.Name)
		if !ok {
			continue
		}

		pagination := bucket.Page
		buckets = append(buckets, &BucketData{
			Site:       info.Name,
			SiteID:     info.ID,
			Count:      info.Count,
			Pagination: &pagination,
			Records:    bucket.Records,
		})
	}

	stats := store.Statistics()

	data, err := json.Marshal(&Output{
		Query:   options.Keyword,
		Page:    options.Page,
		Buckets: buckets,
		Picked:  picked,
		Failed:  failed,
		Stats:   &stats,
	})
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	return err
}

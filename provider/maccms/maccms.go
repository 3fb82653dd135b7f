// Package maccms implements the builtin adapter for maccms-style VOD
// collection APIs, the protocol virtually every configurable upstream site
// speaks.
package maccms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/internal/cache"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/site"
	"github.com/vodhound/vodhound/source"
)

// ErrVideoNotFound marks a detail lookup whose id matched nothing upstream.
var ErrVideoNotFound = errors.New("video not found")

// Source adapts one registry site to the search contract.
type Source struct {
	site *site.Site
}

// New wraps a registry site. The site is read-only to the adapter.
func New(s *site.Site) *Source {
	return &Source{site: s}
}

func (m *Source) ID() string {
	return m.site.ID
}

func (m *Source) Name() string {
	return m.site.Name
}

// Search performs one keyword query against the site and returns a single
// normalized page. Responses are served from the short-lived disk cache when
// fresh.
func (m *Source) Search(ctx context.Context, keyword string, page, pageSize int) (*source.Reply, error) {
	if err := source.ValidatePageArgs(page, pageSize); err != nil {
		return nil, err
	}

	cacheKey := cache.Key(m.site.ID, keyword, page, pageSize)

	var cached source.Reply
	if cache.Read(cacheKey, &cached) {
		log.WithFields("serving cached page", log.Fields{"site": m.site.ID, "keyword": keyword, "page": page})
		return &cached, nil
	}

	envelope, err := m.fetch(ctx, keyword, page)
	if err != nil {
		return nil, err
	}

	items, pagination := envelope.extract(page, pageSize)

	records := make([]*source.Record, 0, len(items))
	for _, item := range items {
		if filtered(item) {
			continue
		}

		record := mapRecord(m.site.Name, item)
		if record.Valid() {
			records = append(records, record)
		}
	}

	reply := &source.Reply{
		SiteName:   m.site.Name,
		Records:    records,
		Pagination: pagination,
		TotalCount: envelope.totalCount(),
	}

	log.WithFields("upstream page decoded", log.Fields{
		"site":     m.site.ID,
		"keyword":  keyword,
		"page":     page,
		"received": len(items),
		"kept":     len(records),
	})

	_ = cache.Write(cacheKey, reply)
	return reply, nil
}

// Detail resolves a single record by id. Collection APIs have no by-id
// endpoint, so the lookup re-searches the keyword with a larger page and
// matches ids, falling back to the closest title when the id has vanished
// from the current listing.
func (m *Source) Detail(ctx context.Context, keyword, id string) (*source.Record, error) {
	pageSize := viper.GetInt(key.SearchDetailPageSize)
	if pageSize <= 0 || pageSize > source.MaxPageSize {
		pageSize = 50
	}

	reply, err := m.Search(ctx, keyword, 1, pageSize)
	if err != nil {
		return nil, err
	}

	for _, record := range reply.Records {
		if record.ID == id {
			return record, nil
		}
	}

	if len(reply.Records) == 0 {
		return nil, fmt.Errorf("%w: id %s on %s", ErrVideoNotFound, id, m.site.Name)
	}

	normalized := strings.ToLower(strings.TrimSpace(keyword))
	closest := lo.MinBy(reply.Records, func(a, b *source.Record) bool {
		return levenshtein.Distance(normalized, strings.ToLower(a.Title)) <
			levenshtein.Distance(normalized, strings.ToLower(b.Title))
	})

	log.WithFields("detail id missing upstream, using closest title", log.Fields{
		"site":    m.site.ID,
		"id":      id,
		"closest": closest.Title,
	})

	return closest, nil
}

// filtered reports whether the item belongs to one of the configured noise
// categories (trailers, commentary reuploads).
func filtered(item map[string]any) bool {
	typeName := asString(item["type_name"])
	if typeName == "" {
		return false
	}

	return lo.Contains(viper.GetStringSlice(key.SearchFilteredCategories), typeName)
}

// Package session owns the per-search aggregation state: one bucket of
// records and pagination per responding source, an active-bucket cursor, and
// the TTL-bounded snapshot that lets a session survive restarts.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
)

var (
	// ErrUnknownBucket marks an operation addressed at a display name the
	// session has no bucket for.
	ErrUnknownBucket = errors.New("unknown bucket")

	// ErrMissingPagination marks a replace-mode apply whose outcome carried
	// no upstream page state. Replace semantics are meaningless without it.
	ErrMissingPagination = errors.New("missing pagination metadata")
)

// Store is the exclusive owner of session state. Every operation is
// synchronous and mutex-serialized; no I/O ever happens inside the store.
type Store struct {
	mu       sync.RWMutex
	pageSize int

	keyword   string
	epoch     uint64
	buckets   map[string]*Bucket
	order     []string
	active    string
	nameIndex map[string]string
}

// New builds an empty store with the configured session page size.
func New() *Store {
	pageSize := viper.GetInt(key.SearchPageSize)
	if pageSize < 1 || pageSize > source.MaxPageSize {
		pageSize = source.DefaultPageSize
	}

	return &Store{
		pageSize:  pageSize,
		buckets:   make(map[string]*Bucket),
		nameIndex: make(map[string]string),
	}
}

// PageSize returns the fixed records-per-page contract of this session.
func (s *Store) PageSize() int {
	return s.pageSize
}

// StartSearch resets the session for a fresh keyword and returns the new
// epoch. The epoch is monotonic across searches and clears; outcomes stamped
// with an older epoch are dropped at apply time, which is what protects the
// store from a superseded search completing late.
func (s *Store) StartSearch(keyword string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.keyword = strings.TrimSpace(keyword)
	s.buckets = make(map[string]*Bucket)
	s.order = nil
	s.active = ""

	return s.epoch
}

// ApplyOutcome folds one adapter outcome into the session.
//
// Stale-epoch outcomes are dropped unconditionally. Failed outcomes mutate
// nothing; the error stays on the outcome for the caller to display. Append
// mode creates or extends a bucket (a bucket is only ever materialized by a
// non-empty record set); replace mode swaps the records wholesale and
// requires upstream pagination. The first outcome to materialize a bucket in
// an epoch claims the active cursor if none is set.
func (s *Store) ApplyOutcome(outcome source.Outcome, mode LoadMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome.Epoch != s.epoch {
		log.Debugf("dropping stale outcome from %s: epoch %d, store at %d", outcome.SourceID, outcome.Epoch, s.epoch)
		return nil
	}

	if outcome.Err != nil {
		return nil
	}

	name := outcome.DisplayName
	if name == "" {
		name = outcome.SourceID
	}

	if name != "" && outcome.SourceID != "" {
		s.nameIndex[name] = outcome.SourceID
	}

	switch mode {
	case ModeReplace:
		if err := s.applyReplace(name, outcome); err != nil {
			return err
		}
	default:
		s.applyAppend(name, outcome)
	}

	if s.active == "" {
		if _, ok := s.buckets[name]; ok {
			s.active = name
		}
	}

	return nil
}

func (s *Store) applyAppend(name string, outcome source.Outcome) {
	bucket, ok := s.buckets[name]
	if !ok {
		if len(outcome.Records) == 0 {
			return
		}

		bucket = &Bucket{DisplayName: name, SourceID: outcome.SourceID}
		s.buckets[name] = bucket
		s.order = append(s.order, name)
	}

	bucket.Records = append(bucket.Records, outcome.Records...)
	bucket.Mode = ModeAppend

	if outcome.Pagination != nil {
		// Upstream pagination is authoritative, never recomputed over.
		bucket.Page = *outcome.Pagination
	} else {
		// Local approximation: everything received so far, described as
		// page 1..N, used only until upstream pagination shows up.
		bucket.Page = source.NewPageState(1, s.pageSize, len(bucket.Records))
	}
}

func (s *Store) applyReplace(name string, outcome source.Outcome) error {
	if outcome.Pagination == nil {
		return fmt.Errorf("%w: replace apply for %s", ErrMissingPagination, name)
	}

	bucket, ok := s.buckets[name]
	if !ok {
		if len(outcome.Records) == 0 {
			return nil
		}

		bucket = &Bucket{DisplayName: name, SourceID: outcome.SourceID}
		s.buckets[name] = bucket
		s.order = append(s.order, name)
	}

	records := make([]*source.Record, len(outcome.Records))
	copy(records, outcome.Records)

	bucket.Records = records
	bucket.Page = *outcome.Pagination
	bucket.Mode = ModeReplace
	return nil
}

// SwitchActiveBucket moves the active cursor. An unknown name is a typed
// error and leaves the cursor untouched. resetPage rewinds the bucket to its
// first page without touching the totals.
func (s *Store) SwitchActiveBucket(name string, resetPage bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, name)
	}

	s.active = name

	if resetPage {
		bucket.Page.CurrentPage = 1
	}

	return nil
}

// SetPage positions a bucket's cursor, clamped to [1, TotalPages].
func (s *Store) SetPage(name string, page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, name)
	}

	bucket.Page.CurrentPage = util.Min(util.Max(page, 1), util.Max(bucket.Page.TotalPages, 1))
	return nil
}

// Clear resets the session to its empty state. The epoch keeps counting so
// outcomes still in flight from before the clear stay invalid. Deleting the
// persisted snapshot is the caller's job, through the gateway.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.keyword = ""
	s.buckets = make(map[string]*Bucket)
	s.order = nil
	s.active = ""
}

// VisibleSlice returns the records to render for the active bucket's current
// page. A replace-tagged bucket already holds exactly the requested page; an
// append-tagged bucket holds the full history and gets windowed. The result
// never exceeds the session page size.
func (s *Store) VisibleSlice() []*source.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.buckets[s.active]
	if !ok {
		return nil
	}

	if bucket.Mode == ModeReplace {
		return copySlice(bucket.Records[:util.Min(len(bucket.Records), s.pageSize)])
	}

	from := (bucket.Page.CurrentPage - 1) * s.pageSize
	if from < 0 || from >= len(bucket.Records) {
		return nil
	}

	to := util.Min(from+s.pageSize, len(bucket.Records))
	return copySlice(bucket.Records[from:to])
}

// CurrentPagination returns the active bucket's page state.
func (s *Store) CurrentPagination() (source.PageState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.buckets[s.active]
	if !ok {
		return source.PageState{}, false
	}

	return bucket.Page, true
}

// AvailableBuckets lists the session's buckets in creation order.
func (s *Store) AvailableBuckets() []BucketInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]BucketInfo, 0, len(s.order))
	for _, name := range s.order {
		bucket := s.buckets[name]
		infos = append(infos, BucketInfo{
			ID:    bucket.SourceID,
			Name:  bucket.DisplayName,
			Count: len(bucket.Records),
		})
	}

	return infos
}

// Bucket returns a copy of one bucket. Callers never see live state.
func (s *Store) Bucket(name string) (*Bucket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.buckets[name]
	if !ok {
		return nil, false
	}

	return bucket.clone(), true
}

// Statistics recomputes the session summary.
func (s *Store) Statistics() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Buckets: len(s.order)}
	for _, name := range s.order {
		bucket := s.buckets[name]

		perBucket := bucket.stats()
		stats.Records += perBucket.Count
		stats.Total += perBucket.Total
		stats.PerBucket = append(stats.PerBucket, perBucket)
	}

	return stats
}

// Active returns the active bucket's display name, empty when none is set.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// Keyword returns the session's current search keyword.
func (s *Store) Keyword() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.keyword
}

// Epoch returns the current search generation.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.epoch
}

// ResolveSource reverse-resolves a display name to the source id that
// produced it, once an outcome has carried both.
func (s *Store) ResolveSource(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.nameIndex[name]
	return id, ok
}

func copySlice(records []*source.Record) []*source.Record {
	out := make([]*source.Record, len(records))
	copy(out, records)
	return out
}

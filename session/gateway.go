package session

import (
	"time"

	"github.com/metafates/gache"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/where"
)

// TTL bounds how long a persisted session stays resumable.
const TTL = 2 * time.Hour

// Snapshot is the persistable projection of a session: the state minus
// anything derived (statistics) or meaningless across runs (epoch).
type Snapshot struct {
	Keyword   string            `json:"keyword"`
	Buckets   []*Bucket         `json:"buckets"`
	Active    string            `json:"active_bucket"`
	NameIndex map[string]string `json:"name_index"`
	PageSize  int               `json:"page_size"`

	// PersistedAt is stamped by the gateway on save, in epoch milliseconds.
	PersistedAt int64 `json:"persisted_at"`
}

// Snapshot projects the current state. Record pointers are shared; records
// are immutable once received so the copy stays consistent even while new
// outcomes keep arriving.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make([]*Bucket, 0, len(s.order))
	for _, name := range s.order {
		buckets = append(buckets, s.buckets[name].clone())
	}

	nameIndex := make(map[string]string, len(s.nameIndex))
	for name, id := range s.nameIndex {
		nameIndex[name] = id
	}

	return &Snapshot{
		Keyword:   s.keyword,
		Buckets:   buckets,
		Active:    s.active,
		NameIndex: nameIndex,
		PageSize:  s.pageSize,
	}
}

// Restore rehydrates a snapshot into an empty store. A store that already
// holds a session refuses the restore; snapshots only ever rehydrate at
// startup.
func (s *Store) Restore(snapshot *Snapshot) bool {
	if snapshot == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keyword != "" || len(s.buckets) > 0 {
		return false
	}

	if snapshot.PageSize > 0 {
		s.pageSize = snapshot.PageSize
	}

	s.keyword = snapshot.Keyword
	s.buckets = make(map[string]*Bucket, len(snapshot.Buckets))
	s.order = nil

	for _, bucket := range snapshot.Buckets {
		if bucket == nil || len(bucket.Records) == 0 {
			continue
		}

		s.buckets[bucket.DisplayName] = bucket
		s.order = append(s.order, bucket.DisplayName)
	}

	if _, ok := s.buckets[snapshot.Active]; ok {
		s.active = snapshot.Active
	}

	s.nameIndex = snapshot.NameIndex
	if s.nameIndex == nil {
		s.nameIndex = make(map[string]string)
	}

	return true
}

// Gateway persists session snapshots to a bounded-lifetime side channel.
// The gateway owns the TTL comparison; the clock is injectable for tests.
type Gateway struct {
	cacher *gache.Cache[*Snapshot]
	now    func() time.Time
}

// NewGateway builds a gateway over the session snapshot file.
func NewGateway() *Gateway {
	return &Gateway{
		cacher: gache.New[*Snapshot](&gache.Options{
			Path:       where.Session(),
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

// Save persists a snapshot, stamping it with the current time. Saves are
// idempotent and last-write-wins; debouncing is the caller's concern.
func (g *Gateway) Save(snapshot *Snapshot) error {
	snapshot.PersistedAt = g.now().UnixMilli()
	return g.cacher.Set(snapshot)
}

// Load returns the stored snapshot if one exists and is younger than the
// TTL. A snapshot past its TTL is deleted as a side effect and reported
// absent. A corrupt or unreadable snapshot is a cache miss, never an error.
func (g *Gateway) Load() (*Snapshot, bool) {
	snapshot, _, err := g.cacher.Get()
	if err != nil {
		log.Warnf("session snapshot unreadable, treating as absent: %v", err)
		_ = g.Clear()
		return nil, false
	}

	if snapshot == nil {
		return nil, false
	}

	age := g.now().UnixMilli() - snapshot.PersistedAt
	if age > TTL.Milliseconds() {
		log.Debugf("session snapshot expired, age %dms", age)
		_ = g.Clear()
		return nil, false
	}

	return snapshot, true
}

// Clear deletes the persisted snapshot.
func (g *Gateway) Clear() error {
	return g.cacher.Set(nil)
}

package site

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/where"
)

// Registry holds the configured sites in file order and serializes every
// mutation back to disk.
type Registry struct {
	mu    sync.RWMutex
	path  string
	sites []*Site
	index map[string]*Site
}

// Open loads the sites registry from the config dir, seeding the embedded
// default list on first run.
func Open() (*Registry, error) {
	return openAt(where.Sites())
}

func openAt(path string) (*Registry, error) {
	r := &Registry{
		path:  path,
		index: make(map[string]*Site),
	}

	raw, err := filesystem.API().ReadFile(path)
	if os.IsNotExist(err) {
		r.adopt(defaultSites())
		return r, r.save()
	}

	if err != nil {
		return nil, fmt.Errorf("reading sites registry: %w", err)
	}

	var file File
	if err = json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing sites registry: %w", err)
	}

	for _, s := range file.Sites {
		if strings.TrimSpace(s.ID) == "" {
			continue
		}

		if err = s.Validate(); err != nil {
			return nil, err
		}
	}

	r.adopt(lo.Filter(file.Sites, func(s *Site, _ int) bool {
		return strings.TrimSpace(s.ID) != ""
	}))

	return r, nil
}

func (r *Registry) adopt(sites []*Site) {
	r.sites = sites
	r.index = make(map[string]*Site, len(sites))

	for _, s := range sites {
		r.index[s.ID] = s
	}
}

// List returns every configured site in file order.
func (r *Registry) List() []*Site {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Site, len(r.sites))
	copy(out, r.sites)
	return out
}

// Enabled returns the sites eligible for search fan-out.
func (r *Registry) Enabled() []*Site {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Filter(r.sites, func(s *Site, _ int) bool {
		return s.Enabled
	})
}

// Get returns the site for id if the registry holds one.
func (r *Registry) Get(id string) (*Site, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.index[id]
	return s, ok
}

// Lookup resolves a site id for a targeted operation, rejecting empty ids,
// unknown ids and disabled sites with typed errors.
func (r *Registry) Lookup(id string) (*Site, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty site id", ErrUnknownSite)
	}

	s, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, id)
	}

	if !s.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrSiteDisabled, id)
	}

	return s, nil
}

// Toggle flips the enabled flag of a site and persists the registry. The flip
// is optimistic: a failed save reverts it. Returns the resulting state.
func (r *Registry) Toggle(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.index[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSite, id)
	}

	s.Enabled = !s.Enabled

	if err := r.save(); err != nil {
		s.Enabled = !s.Enabled
		return s.Enabled, fmt.Errorf("persisting toggle: %w", err)
	}

	return s.Enabled, nil
}

// Add appends a new site and persists the registry. The append is
// optimistic: a failed save reverts it.
func (r *Registry) Add(s *Site) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: missing site_id", ErrInvalidSite)
	}

	if err := s.Validate(); err != nil {
		return err
	}

	s.fillDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[s.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", ErrInvalidSite, s.ID)
	}

	r.sites = append(r.sites, s)
	r.index[s.ID] = s

	if err := r.save(); err != nil {
		r.sites = r.sites[:len(r.sites)-1]
		delete(r.index, s.ID)
		return fmt.Errorf("persisting new site: %w", err)
	}

	return nil
}

// Save writes the registry to disk.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save()
}

// save assumes the caller holds the lock. The write goes through a sibling
// temp file and a rename so a crash mid-write never corrupts the registry.
func (r *Registry) save() error {
	raw, err := json.MarshalIndent(File{Sites: r.sites}, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err = filesystem.API().WriteFile(tmp, raw, 0644); err != nil {
		return err
	}

	if err = filesystem.API().Rename(tmp, r.path); err != nil {
		_ = filesystem.API().Remove(tmp)
		return err
	}

	return nil
}

// Package site manages the registry of configured upstream VOD sites.
package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout is the per-request deadline, in seconds, applied to sites
// that do not configure their own.
const DefaultTimeout = 15

var (
	// ErrInvalidSite marks a registry entry missing one of its required fields.
	ErrInvalidSite = errors.New("invalid site entry")

	// ErrUnknownSite marks a lookup for a site id the registry does not hold.
	ErrUnknownSite = errors.New("unknown site")

	// ErrSiteDisabled marks an operation addressed at a site the user has turned off.
	ErrSiteDisabled = errors.New("site is disabled")
)

// Site describes one upstream VOD collection endpoint. The JSON field names
// mirror the on-disk registry format.
type Site struct {
	ID      string `json:"site_id"`
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Enabled bool   `json:"enabled"`

	// Timeout is the per-request deadline in seconds.
	Timeout int `json:"timeout"`

	// Query parameter names, configurable per site since collection APIs
	// occasionally rename them.
	SearchParam string `json:"search_endpoint"`
	PageParam   string `json:"page_param"`
	ActionParam string `json:"action_param"`
}

// File is the envelope of the on-disk sites registry.
type File struct {
	Sites []*Site `json:"sites"`
}

func (s *Site) String() string {
	return s.Name
}

// UnmarshalJSON decodes a registry entry, treating an absent enabled flag as
// enabled and filling the remaining optional fields with their defaults.
func (s *Site) UnmarshalJSON(data []byte) error {
	type alias Site

	aux := struct {
		Enabled *bool `json:"enabled"`
		*alias
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Enabled == nil {
		s.Enabled = true
	} else {
		s.Enabled = *aux.Enabled
	}

	s.fillDefaults()
	return nil
}

func (s *Site) fillDefaults() {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}

	if s.SearchParam == "" {
		s.SearchParam = "wd"
	}

	if s.PageParam == "" {
		s.PageParam = "pg"
	}

	if s.ActionParam == "" {
		s.ActionParam = "ac"
	}
}

// Validate reports whether the entry carries the fields every consumer
// relies on. Param names are defaulted at decode time and never fail here.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSite)
	}

	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("%w: missing base_url for %q", ErrInvalidSite, s.Name)
	}

	return nil
}

// Duration converts the persisted timeout seconds into a context deadline.
func (s *Site) Duration() time.Duration {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return time.Duration(timeout) * time.Second
}

// Package source defines the domain models and the adapter contract for
// VOD discovery across heterogeneous upstream sites.
package source

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// PlayEpisode is a single playable entry inside a play source.
type PlayEpisode struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PlaySources groups episodes by container format ("m3u8", "mp4", ...).
type PlaySources map[string][]PlayEpisode

// Formats lists the available container formats in stable order.
func (ps PlaySources) Formats() []string {
	formats := lo.Keys(ps)
	slices.Sort(formats)
	return formats
}

// Total returns the episode count across all formats.
func (ps PlaySources) Total() int {
	return lo.SumBy(lo.Values(ps), func(episodes []PlayEpisode) int {
		return len(episodes)
	})
}

// ParsePlaySources decodes the packed maccms playlist encoding into episodes
// grouped by container format.
//
// The wire form packs two parallel lists: playFrom is a "$$$"-separated
// sequence of source labels, playURL a "$$$"-separated sequence of playlists
// where each playlist is a "#"-separated run of "name$url" pairs.
func ParsePlaySources(playFrom, playURL string) PlaySources {
	sources := PlaySources{}
	if playURL == "" {
		return sources
	}

	labels := []string{""}
	if playFrom != "" {
		labels = strings.Split(playFrom, "$$$")
	}
	playlists := strings.Split(playURL, "$$$")

	// Upstreams occasionally ship fewer labels than playlists.
	for len(labels) < len(playlists) {
		labels = append(labels, fmt.Sprintf("source_%d", len(labels)+1))
	}

	for i, playlist := range playlists {
		label := strings.TrimSpace(labels[i])
		playlist = strings.TrimSpace(playlist)
		if playlist == "" {
			continue
		}

		var episodes []PlayEpisode
		for _, entry := range strings.Split(playlist, "#") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}

			// First "$" only: URLs may themselves contain the separator.
			name, url, found := strings.Cut(entry, "$")
			if !found {
				continue
			}

			name = strings.TrimSpace(name)
			url = strings.TrimSpace(url)
			if name == "" || url == "" {
				continue
			}

			episodes = append(episodes, PlayEpisode{Name: name, URL: url})
		}

		if len(episodes) == 0 {
			continue
		}

		format := playFormat(label, episodes[0].URL)
		sources[format] = append(sources[format], episodes...)
	}

	return sources
}

// playFormat classifies a playlist by the extension of a sample URL, falling
// back to the source label. Container-less CDN links and share pages play
// like direct files, so everything unrecognized folds into mp4.
func playFormat(label, sampleURL string) string {
	url := strings.ToLower(sampleURL)
	switch {
	case strings.Contains(url, ".m3u8"):
		return "m3u8"
	case strings.Contains(url, ".mp4"):
		return "mp4"
	case strings.Contains(url, ".flv"):
		return "flv"
	case strings.Contains(url, ".avi"):
		return "avi"
	}

	label = strings.ToLower(label)
	switch {
	case strings.Contains(label, "m3u8"):
		return "m3u8"
	case strings.Contains(label, "mp4"):
		return "mp4"
	}

	return "mp4"
}

// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/util"
)

// playEntry pairs one playable episode with the container format it belongs to.
type playEntry struct {
	Format  string
	Episode source.PlayEpisode
}

// listItem adapts records, play entries and providers to the bubbles list.
type listItem struct {
	internal interface{}
	marked   bool
}

func (t *listItem) toggleMark() {
	t.marked = !t.marked
}

// mark is the selection tick shown next to chosen sites. Rendered lazily
// because the icon variant comes from the live configuration.
func mark() string {
	return lipgloss.NewStyle().Bold(true).Foreground(style.Accent).Render(icon.Get(icon.Success))
}

// Title renders the primary line of a row.
func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case *source.Record:
		if e.Year == "" {
			return e.Title
		}
		return e.Title + " " + style.Faint(e.Year)
	case *playEntry:
		if e.Format == "" {
			return e.Episode.Name
		}
		return e.Episode.Name + " " + style.Faint(e.Format)
	case *provider.Provider:
		// Only site rows are markable.
		if t.marked {
			return e.Name + " " + mark()
		}
		return e.Name
	case string:
		return e
	default:
		return t.FilterValue()
	}
}

// Description renders the metadata line under the title.
func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case *source.Record:
		return recordMeta(e)
	case *playEntry:
		return style.Faint(e.Episode.URL)
	case *provider.Provider:
		if e.IsCustom {
			return "Lua adapter"
		}
		return "Collection site"
	default:
		return ""
	}
}

// recordMeta assembles the dot-separated metadata row for a search record.
func recordMeta(r *source.Record) string {
	var parts []string

	if r.TypeName != "" {
		parts = append(parts, r.TypeName)
	}

	if r.Area != "" {
		parts = append(parts, style.Faint(r.Area))
	}

	if r.Status != "" {
		// 完结 marks a finished series.
		c := style.Subtext
		if strings.Contains(r.Status, "完结") {
			c = style.Green
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(c).Render(r.Status))
	}

	if r.ViewCount > 0 {
		parts = append(parts, style.Faint(util.Quantify(r.ViewCount, "view", "views")))
	}

	if r.UploadDate != "" {
		parts = append(parts, style.Faint(r.UploadDate))
	}

	if viper.GetBool(key.TUIShowThumbnailURLs) && r.Thumbnail != "" {
		parts = append(parts, style.Faint(r.Thumbnail))
	}

	return strings.Join(parts, " • ")
}

// FilterValue feeds the list's fuzzy matcher.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *source.Record:
		// The cast is often what people remember, so filter by actor too.
		if e.Actor != "" {
			return e.Title + " " + e.Actor
		}
		return e.Title
	case *playEntry:
		return e.Episode.Name
	case *provider.Provider:
		return e.Name
	case string:
		return e
	default:
		return ""
	}
}

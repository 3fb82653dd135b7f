// Package custom provides a bridge between the Go core and Lua-based adapter scripts.
package custom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/vodhound/vodhound/source"
	lua "github.com/yuin/gopher-lua"
)

// Helper to get string from table. Numbers stringify, everything else is "".
func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTString, lua.LTNumber:
		return val.String()
	}
	return ""
}

// Helper to get int from table (number or numeric string)
func getInt(table *lua.LTable, key string) int {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTNumber:
		return int(val.(lua.LNumber))
	case lua.LTString:
		if parsed, err := strconv.Atoi(strings.TrimSpace(val.String())); err == nil {
			return parsed
		}
	}
	return 0
}

// Helper to get string list from table (comma-separated or table)
func getStringList(table *lua.LTable, key string) []string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return lo.Map(strings.Split(val.String(), ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		})
	}
	if val.Type() == lua.LTTable {
		var list []string
		val.(*lua.LTable).ForEach(func(_, v lua.LValue) {
			if v.Type() == lua.LTString {
				list = append(list, v.String())
			}
		})
		return list
	}
	return nil
}

func recordFromTable(table *lua.LTable, platform string) (*source.Record, error) {
	id := getString(table, "id")
	title := getString(table, "title")

	if id == "" || title == "" {
		return nil, fmt.Errorf("video must have id and title")
	}

	record := &source.Record{
		Platform: platform,
		ID:       id,
		Title:    title,
	}

	// Metadata
	record.Description = getString(table, "description")
	record.Thumbnail = getString(table, "thumbnail")
	record.TypeName = getString(table, "category")
	record.Year = getString(table, "year")
	record.Area = getString(table, "region")
	record.Status = getString(table, "status")
	record.Actor = strings.Join(getStringList(table, "actor"), ", ")
	record.Language = getString(table, "language")
	record.Channel = getString(table, "channel")
	record.ViewCount = getInt(table, "views")
	record.UploadDate = getString(table, "date")

	record.PlaySources = playSourcesFromTable(table)

	return record, nil
}

// playSourcesFromTable reads the 'play' field: a list of
// { name: string, episodes: { { name: string, url: string } } } entries.
// Scripts scraping collection sites may instead return the packed
// 'play_from'/'play_url' string pair and have it split here.
func playSourcesFromTable(table *lua.LTable) source.PlaySources {
	sources := source.PlaySources{}

	play := table.RawGetString("play")
	if play.Type() != lua.LTTable {
		return source.ParsePlaySources(getString(table, "play_from"), getString(table, "play_url"))
	}

	play.(*lua.LTable).ForEach(func(_, v lua.LValue) {
		if v.Type() != lua.LTTable {
			return // Skip invalid entries
		}

		entry := v.(*lua.LTable)
		name := getString(entry, "name")
		if name == "" {
			name = "default"
		}

		episodesTbl := entry.RawGetString("episodes")
		if episodesTbl.Type() != lua.LTTable {
			return
		}

		var episodes []source.PlayEpisode
		episodesTbl.(*lua.LTable).ForEach(func(_, ev lua.LValue) {
			if ev.Type() != lua.LTTable {
				return
			}

			et := ev.(*lua.LTable)
			episode := source.PlayEpisode{
				Name: getString(et, "name"),
				URL:  getString(et, "url"),
			}
			if episode.Name == "" || episode.URL == "" {
				return
			}

			episodes = append(episodes, episode)
		})

		if len(episodes) > 0 {
			sources[name] = append(sources[name], episodes...)
		}
	})

	return sources
}

// pageStateFromTable reads the optional pagination return of SearchVideos:
// { page: number, total: number, pagecount: number|nil }. Upstream pagecount
// wins when present; otherwise it is derived from the total. Nil when the
// table carries neither.
func pageStateFromTable(table *lua.LTable, page, pageSize int) *source.PageState {
	current := getInt(table, "page")
	if current < 1 {
		current = page
	}

	total := getInt(table, "total")
	pagecount := getInt(table, "pagecount")

	if pagecount > 0 {
		return &source.PageState{
			CurrentPage: current,
			PageSize:    pageSize,
			TotalCount:  total,
			TotalPages:  pagecount,
		}
	}

	if total > 0 {
		state := source.NewPageState(current, pageSize, total)
		return &state
	}

	return nil
}

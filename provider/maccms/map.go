package maccms

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/vodhound/vodhound/source"
)

// flexInt tolerates the protocol's habit of serializing numbers as strings
// ("limit": "20") or floats ("total": 48.0).
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*f = 0
		return nil
	}

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*f = 0
		return nil
	}

	*f = flexInt(parsed)
	return nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from description fields; collection APIs embed
// the admin panel's rich text verbatim.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

// asString renders any decoded JSON value as a trimmed string, the protocol
// offering no guarantee about field types.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		if parsed, err := t.Float64(); err == nil {
			return int(parsed)
		}
	case float64:
		return int(t)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(parsed)
		}
	}

	return 0
}

func str(item map[string]any, key string) string {
	return asString(item[key])
}

// mapRecord normalizes one upstream item into the shared record model.
// Field names follow the maccms database schema.
func mapRecord(siteName string, item map[string]any) *source.Record {
	description := str(item, "vod_blurb")
	if description == "" {
		description = str(item, "vod_content")
	}

	uploadDate := str(item, "vod_pubdate")
	if uploadDate == "" {
		uploadDate = str(item, "vod_time")
	}

	viewCount := asInt(item["vod_hits"])
	if viewCount == 0 {
		viewCount = asInt(item["view_count"])
	}

	return &source.Record{
		Platform:    siteName,
		ID:          str(item, "vod_id"),
		Title:       str(item, "vod_name"),
		Description: stripHTML(description),
		Thumbnail:   str(item, "vod_pic"),
		ViewCount:   viewCount,
		UploadDate:  uploadDate,
		Channel:     str(item, "vod_class"),
		Actor:       str(item, "vod_actor"),
		Area:        str(item, "vod_area"),
		Language:    str(item, "vod_lang"),
		Year:        str(item, "vod_year"),
		Status:      str(item, "vod_remarks"),
		TypeName:    str(item, "type_name"),
		PlaySources: source.ParsePlaySources(str(item, "vod_play_from"), str(item, "vod_play_url")),
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/style"
)

// Field is one registered setting: its key, factory default and the help
// text shown by the config commands.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field with its live value for terminal display.
func (f *Field) Pretty() string {
	var buf strings.Builder
	lo.Must0(prettyTemplate.Execute(&buf, f))
	return buf.String()
}

// Env returns the environment variable that overrides this field.
func (f *Field) Env() string {
	var (
		env    = strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
		prefix = strings.ToUpper(constant.Vodhound) + "_"
	)

	if strings.HasPrefix(env, prefix) {
		return env
	}

	return prefix + env
}

// MarshalJSON reports the live value next to the registered default.
func (f *Field) MarshalJSON() ([]byte, error) {
	type dump struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}

	return json.Marshal(dump{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        reflect.TypeOf(f.Value).String(),
	})
}

// Default indexes every registered field by its key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, dup := Default[k]; dup {
			panic("duplicate config key: " + k)
		}

		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.SearchPageSize, 20, "Records per page inside a result bucket.\nUpstream sites are asked for this page size and local pagination slices by it")
	register(key.SearchDetailPageSize, 50, "Page size used when re-searching a site to resolve a single video's detail")
	register(key.SearchFilteredCategories, []string{"预告片", "电影解说", "影视解说"}, "Upstream categories dropped from search results (trailers, commentary re-cuts)")
	register(key.SearchShowQuerySuggestions, true, "Show keyword suggestions from past searches")
	register(key.SearchTimeout, 15, "Per-site search timeout in seconds, used when a site does not configure its own")
	register(key.ProbeKeywords, []string{"电影", "电视剧", "动漫", "综艺", "纪录片"}, "Keywords drawn at random for connectivity probes")
	register(key.ProbeMinResponseSize, 100, "Minimum probe response body size in bytes to count as alive")
	register(key.ProbeValidCodes, []int{1, 0, 200}, "Acceptable 'code' values in a probe's JSON response")
	register(key.ProbeBlockMarkers, []string{"verify", "captcha", "验证", "人机验证", "Request ID"}, "Body substrings that mark a probe response as an anti-bot challenge")
	register(key.MiniSearchLimit, 20, "Limit of records listed per bucket in mini mode")
	register(key.IconsVariant, "plain", "Icon set for list markers and status lines.\nOne of: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.TUISearchPromptString, "> ", "Prompt string shown before the search input")
	register(key.TUIShowThumbnailURLs, false, "Show thumbnail URLs under list items")
	register(key.TUIResumeSession, true, "Offer to resume the previous session when its snapshot is still fresh")
	register(key.LogsWrite, false, "Write logs to the logs directory")
	register(key.LogsLevel, "info", "Log severity threshold.\nFrom least to most verbose: panic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Emit log records as JSON")
	register(key.CliColored, true, "Colorize command output")
	register(key.CliVersionCheck, true, "Check for a newer release on startup")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"magenta": style.Fg(color.Magenta),
	"value":   func(k string) any { return viper.Get(k) },

	// label colors a row caption and pads it to a fixed column.
	"label": func(s string) string {
		return style.Fg(color.Blue)(s+":") + strings.Repeat(" ", 8-len(s))
	},

	"typename": func(v any) string { return reflect.TypeOf(v).String() },

	// hl highlights a value by its type: green/red booleans, yellow strings.
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			c := color.Red
			if value {
				c = color.Green
			}
			return style.Fg(c)(strconv.FormatBool(value))
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ label "Key" }}{{ magenta .Key }}
{{ label "Env" }}{{ .Env }}
{{ label "Value" }}{{ hl (value .Key) }}
{{ label "Default" }}{{ hl .Value }}
{{ label "Type" }}{{ typename .Value }}`))

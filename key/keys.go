// Package key names every configuration setting. The values are viper keys,
// registered with their defaults in config.
package key

// DefinedFieldsCount is the expected size of the settings registry.
const DefinedFieldsCount = 19

// Fan-out search and result handling.
const (
	SearchPageSize             = "search.page_size"
	SearchDetailPageSize       = "search.detail_page_size"
	SearchFilteredCategories   = "search.filtered_categories"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
	SearchTimeout              = "search.timeout"
)

// Reachability probes against upstream sites.
const (
	ProbeKeywords        = "probe.keywords"
	ProbeMinResponseSize = "probe.min_response_size"
	ProbeValidCodes      = "probe.valid_codes"
	ProbeBlockMarkers    = "probe.block_markers"
)

// Prompt-driven mini mode.
const (
	MiniSearchLimit = "mini.search_limit"
)

// Icon rendering.
const (
	IconsVariant = "icons.variant"
)

// Full-screen interactive mode.
const (
	TUISearchPromptString = "tui.search_prompt"
	TUIShowThumbnailURLs  = "tui.show_thumbnail_urls"
	TUIResumeSession      = "tui.resume_session"
)

// Diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Plain command-line behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

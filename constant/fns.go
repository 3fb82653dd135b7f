// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Adapter Function Identifiers - these constants define the required global function signatures for Lua adapter scripts.
const (
	SearchVideosFn = "SearchVideos"
	VideoDetailFn  = "VideoDetail"
)

// SourceTemplate is a Go text/template for scaffolding new Lua adapter files.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias video { id: string, title: string, description: string|nil, thumbnail: string|nil, category: string|nil, year: string|nil, region: string|nil, status: string|nil }
---@alias page { page: number, total: number, pagecount: number|nil }


----- IMPORTS -----
--- END IMPORTS ---



----- VARIABLES -----
--- END VARIABLES ---



----- MAIN -----

--- Searches for videos with the given keyword.
-- @param query string Keyword to search for
-- @param page number Page to request (1-based)
-- @return video[] Table of videos
-- @return page|nil Pagination table
function {{ .SearchVideosFn }}(query, page)
	return {}, nil
end


--- Fetches the play sources of a single video.
-- @param id string Video id as returned by {{ .SearchVideosFn }}
-- @return video Table with a 'play' field: { { name: string, episodes: { { name: string, url: string } } } }
function {{ .VideoDetailFn }}(id)
	return {}
end


--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`

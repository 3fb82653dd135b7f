// Package source defines the domain models and the adapter contract for
// VOD discovery across heterogeneous upstream sites.
package source

// Record is a single normalized search hit. Its identity is the pair
// (Platform, ID); two records with the same pair describe the same video.
type Record struct {
	// Platform is the display name of the site the record came from.
	Platform string `json:"platform"`
	// ID is the upstream identifier, unique within the platform only.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	ViewCount   int    `json:"view_count"`
	UploadDate  string `json:"upload_date"`
	Channel     string `json:"channel"`
	Actor       string `json:"actor"`
	Area        string `json:"area"`
	Language    string `json:"language"`
	Year        string `json:"year"`
	Status      string `json:"status"`
	TypeName    string `json:"type_name"`

	// PlaySources groups playable episodes by container format.
	PlaySources PlaySources `json:"play_sources"`
}

func (r *Record) String() string {
	return r.Title
}

// Valid reports whether the record carries the identity fields every
// consumer relies on. Invalid records are dropped at the adapter boundary.
func (r *Record) Valid() bool {
	return r.ID != "" && r.Title != ""
}

// Package constant holds application identity values and build-time metadata.
package constant

const (
	// Vodhound is the canonical application identifier used for filesystem paths and CLI branding.
	Vodhound = "vodhound"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for network requests to upstream sites.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

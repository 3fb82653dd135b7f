package constant

// Build metadata, injected at link time via -ldflags. Defaults cover
// plain `go build` and `go run` invocations.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

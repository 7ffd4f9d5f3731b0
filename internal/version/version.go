// Package version holds build metadata injected with -ldflags.
package version

// Build metadata injected by goreleaser or makefile
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

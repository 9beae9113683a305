// Package version exposes the skyviz build identity, stamped at build
// time via -ldflags.
package version

var (
	// Version is the semantic version of this skyviz build.
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built.
	BuildTime = "unknown"

	// GitCommit is the git commit hash the binary was built from.
	GitCommit = "unknown"
)

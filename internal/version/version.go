// Package version carries build metadata stamped in at link time with
// -ldflags "-X github.com/banshee-data/relief/internal/version.Version=...".
package version

import "fmt"

// ToolName identifies the generator in emitted scripts and logs.
const ToolName = "relief"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a one-line description for --version output.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", ToolName, Version, GitSHA, BuildTime)
}

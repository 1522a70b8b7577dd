package modmerge

import "fmt"

var (
	// version is set via ldflags during release builds.
	// Development builds show "dev".
	version = "dev"

	// commit is the short git hash, set via ldflags during release builds.
	commit = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from, or 'unknown'
func Commit() string {
	return commit
}

// BuildInfo returns a single-line build description for version output
func BuildInfo() string {
	return fmt.Sprintf("modmerge %s (commit %s)", version, commit)
}

// Package version carries build identification, overridden at link
// time via -ldflags.
package version

import "fmt"

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
)

func String() string {
	return fmt.Sprintf("parley %s (commit %s)", Version, Commit)
}

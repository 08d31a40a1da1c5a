// Package version holds build metadata for the todo binary.
package version

import "fmt"

// Set at build time, e.g.
// go build -ldflags "-X github.com/pablasso/todo/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("todo %s (commit %s, built %s)", Version, CommitSHA, BuildDate)
}

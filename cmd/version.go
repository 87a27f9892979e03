package cmd

import "fmt"

var (
	// These variables are set via ldflags during build
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// versionString returns the full version information
func versionString() string {
	return fmt.Sprintf("%s (Commit: %s, Built: %s)", Version, GitCommit, BuildDate)
}

package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// buildInfo holds the metadata stamped into the binary at release time.
var buildInfo = struct {
	version string
	commit  string
	date    string
}{"dev", "none", "unknown"}

// SetVersionInfo records the build metadata printed by the version command.
func SetVersionInfo(version, commit, date string) {
	buildInfo.version = version
	buildInfo.commit = commit
	buildInfo.date = date
}

// Version returns the version command.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("director-aws %s (commit %s, built %s, %s/%s)\n",
				buildInfo.version, buildInfo.commit, buildInfo.date,
				runtime.GOOS, runtime.GOARCH)
		},
	}
}

package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), versionLine(version, info))
	},
}

// versionLine is "sqlpad <version>", followed by the VCS revision and Go
// version when the binary carries build info.
func versionLine(v string, info *debug.BuildInfo) string {
	line := "sqlpad " + v
	if info == nil {
		return line
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "+dirty"
			}
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" {
		line += fmt.Sprintf(" (%s%s)", rev, dirty)
	}
	if info.GoVersion != "" {
		line += " " + info.GoVersion
	}
	return line
}

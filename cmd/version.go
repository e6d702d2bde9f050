// =============================================================================
// CTOS Report Extractor - Version Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version, overridable at build time with
// -ldflags "-X github.com/ginjaninja78/ctos-report-extractor/cmd.Version=...".
var Version = "1.0.0"

// BuildDate is injected at build time the same way.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ctosx %s (built %s)\n", Version, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// =============================================================================
// CTOS Report Extractor - Root Command
// =============================================================================
//
// Defines the root command for the Cobra CLI. The root command carries
// the global flags and builds the shared configuration and logger the
// subcommands use.
//
// COMMAND STRUCTURE:
//   ctosx
//   ├── extract  (flattened field/value listing for one or all accounts)
//   ├── export   (multi-sheet XLSX workbook)
//   └── version
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/ctos-report-extractor/internal/config"
)

// cfgFile holds the path to the configuration file, overridable with
// the --config flag.
var cfgFile string

// verbose enables debug logging with the development encoder.
var verbose bool

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ctosx",
	Short: "CTOS Report Extractor - normalize malformed XML credit reports into tabular records",
	Long: `CTOS Report Extractor ingests spreadsheet rows carrying malformed XML
credit-report fragments, repairs and combines them per account, classifies
each document against the old and new CTOS report layouts, and extracts
flat field/value records for display or multi-sheet XLSX export.

Example Usage:
  ctosx extract --input reports.xlsx --account ACC1   # One account's listing
  ctosx extract --input reports.xlsx --all            # Every account
  ctosx export  --input reports.xlsx                  # Export workbook
  ctosx export  --input reports.xlsx --dry-run        # Pipeline only, no file`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration file named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildLogger constructs the zap logger the pipeline is handed.
// Verbose mode switches to the development encoder at debug level.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.ZapLevel())
	return zc.Build()
}

// =============================================================================
// CTOS Report Extractor - Export Command
// =============================================================================
//
// The export command runs the whole batch pipeline and writes the
// multi-sheet workbook: every account combined, sanitized, classified,
// extracted and projected onto the fixed sheet schemas. One broken
// account never aborts the batch; failures are collected into an error
// log written next to the workbook.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ctos-report-extractor/internal/pipeline"
	"github.com/ginjaninja78/ctos-report-extractor/internal/xlsxio"
)

var (
	exportInput  string
	exportDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every account to a multi-sheet XLSX workbook",
	Long: `The export command processes every logical account in the input
workbook and writes one workbook with a sheet per section type, both
old-format and new-format schemas. Sheets with no extracted rows carry a
single placeholder row so no sheet is ever empty.

On error:
  - A failed account is skipped and logged; the rest of the batch exports
  - The per-account error log is written next to the workbook
  - A missing required input column aborts before any processing`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportInput, "input", "", "Path to the input workbook (required)")
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "Run the pipeline without writing any file")
	exportCmd.MarkFlagRequired("input")
}

func runExport() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Println("=== CTOS Report Export ===")

	rows, err := xlsxio.ReadInput(exportInput, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Read %d input row(s)\n", len(rows))

	p := pipeline.New(cfg, log)
	result, err := p.Export(rows, exportInput, exportDryRun, func(done, total int) {
		fmt.Printf("  processed %d/%d accounts\n", done, total)
	})
	if err != nil {
		return err
	}

	fmt.Println("\n=== Export Complete ===")
	fmt.Printf("Accounts:        %d\n", result.Accounts)
	fmt.Printf("Succeeded:       %d\n", result.Accounts-len(result.Failed))
	fmt.Printf("Failed:          %d\n", len(result.Failed))
	fmt.Printf("Time elapsed:    %s\n", result.Elapsed)

	if exportDryRun {
		fmt.Println("Dry run: no file written.")
		return nil
	}

	fmt.Printf("Workbook:        %s\n", result.OutputFile)
	if result.ErrorLog != "" {
		fmt.Printf("Error log:       %s\n", result.ErrorLog)
	}
	return nil
}

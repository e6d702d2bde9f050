// =============================================================================
// CTOS Report Extractor - Extract Command
// =============================================================================
//
// The extract command prints the flattened (field, value) listing the
// display grid consumes: one record per line, section-boundary markers
// rendered as headed separators. Either one account (--account) or all
// of them (--all).
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ctos-report-extractor/internal/pipeline"
	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
	"github.com/ginjaninja78/ctos-report-extractor/internal/xlsxio"
)

var (
	extractInput   string
	extractAccount string
	extractAll     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the flattened field/value listing from an input workbook",
	Long: `The extract command reads the input workbook, rebuilds each logical
account's XML document from its fragments, and prints the flattened
field/value records the display grid shows. Section boundaries appear as
separator lines.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract()
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractInput, "input", "", "Path to the input workbook (required)")
	extractCmd.Flags().StringVar(&extractAccount, "account", "", "Account key to extract")
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "Extract every account")
	extractCmd.MarkFlagRequired("input")
}

func runExtract() error {
	if !extractAll && extractAccount == "" {
		return fmt.Errorf("either --account or --all is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	rows, err := xlsxio.ReadInput(extractInput, cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, log)

	if extractAll {
		accounts, listings := p.DisplayAll(rows)
		for _, account := range accounts {
			fmt.Printf("===== %s =====\n", account)
			printRecords(listings[account])
			fmt.Println()
		}
		return nil
	}

	records, err := p.Display(rows, extractAccount)
	if err != nil {
		return err
	}
	printRecords(records)
	return nil
}

// printRecords renders one listing; bold section markers become headed
// separator lines.
func printRecords(records types.RecordList) {
	for _, r := range records {
		if r.Bold {
			fmt.Printf("--- %s ---\n", r.Field)
			continue
		}
		if r.Field == "" && r.Value == "" {
			fmt.Println()
			continue
		}
		fmt.Printf("%-32s %s\n", r.Field, r.Value)
	}
}

// =============================================================================
// CTOS Report Extractor - Main Entry Point
// =============================================================================
//
// Everything interesting lives under cmd/ and internal/; main only hands
// control to the Cobra root command.
//
// =============================================================================

package main

import "github.com/ginjaninja78/ctos-report-extractor/cmd"

func main() {
	cmd.Execute()
}

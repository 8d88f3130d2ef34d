package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/metrics"
)

func init() {
	rootCmd.AddCommand(displayCmd)
}

var displayCmd = &cobra.Command{
	Use:   "display <key-file> <data-file> [tags...]",
	Short: "Print the report to the terminal",
	Long: `Print the report to the terminal: each key author's statistics and
publication table, then the numbered bibliography.

Output is always human-readable text.

Examples:
  pubstats display key.csv paperpile.json
  pubstats display key.xlsx paperpile.json SCRiM "SCRiM core"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDisplay,
}

func runDisplay(cmd *cobra.Command, args []string) error {
	rec := metrics.New()
	rep := mustBuildReport(cmd.Context(), args, rec)

	if err := export.WriteText(os.Stdout, rep); err != nil {
		exitWithError(ExitError, "writing report: %v", err)
	}
	writeMetrics(rec)
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/scrim-network/pubstats/internal/author"
	"github.com/scrim-network/pubstats/internal/clipboard"
	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/metrics"
)

var authorCopy bool

func init() {
	authorCmd.Flags().BoolVar(&authorCopy, "copy", false, "Copy the author's citations to the clipboard")
	rootCmd.AddCommand(authorCmd)
}

var authorCmd = &cobra.Command{
	Use:   "author <key-file> <data-file> <name> [tags...]",
	Short: "Show one key author's statistics",
	Long: `Show one key author's statistics and publications.

The name can be given as "First Last" or "Last, First". Matching uses
the same first-name/last-name key as the report itself.

Examples:
  pubstats author key.csv paperpile.json "Ann Lee"
  pubstats author key.csv paperpile.json "Lee, Ann" --human
  pubstats author key.csv paperpile.json "Ann Lee" --copy`,
	Args: cobra.MinimumNArgs(3),
	RunE: runAuthor,
}

// AuthorResponse is the response for the author command.
type AuthorResponse struct {
	AuthorStats
	Citations []string `json:"citations"`
}

func runAuthor(cmd *cobra.Command, args []string) error {
	q := author.ParseQuery(args[2])
	key, ok := q.Key()
	if !ok {
		exitWithError(ExitError, "cannot derive a name key from %q", args[2])
	}

	rec := metrics.New()
	rep := mustBuildReport(cmd.Context(), append([]string{args[0], args[1]}, args[3:]...), rec)
	writeMetrics(rec)

	id, ok := rep.Translation[key]
	if !ok {
		exitWithError(ExitDataError, "%q is not a key author", args[2])
	}
	record, ok := rep.Author(id)
	if !ok {
		exitWithError(ExitDataError, "%q is not a key author", args[2])
	}

	resp := AuthorResponse{AuthorStats: authorStats(record), Citations: []string{}}
	for _, n := range resp.Pubs {
		pub, _ := rep.Publication(n - 1)
		resp.Citations = append(resp.Citations, export.Citation(pub, rep.Translation, nil))
	}

	if authorCopy {
		if err := clipboard.CopyCitations(resp.Pubs, resp.Citations); err != nil {
			logger.Warn("copying citations", "error", err)
		}
	}

	if humanOutput {
		outputHuman("%s (%s)\n", record.FullName(), record.Identity)
		outputHuman("  institution: %s\n  field:       %s\n\n", record.Institution, record.Discipline)
		outputHuman("  publications:     %d\n  lead:             %d\n  co-author:        %d\n",
			resp.Total, resp.Lead, resp.Coauthor)
		outputHuman("  multi-author:     %d\n  multi-institute:  %d\n  multi-discipline: %d\n  cuca:             %d\n\n",
			resp.MultiAuthor, resp.MultiInstitute, resp.MultiDiscipline, resp.CrossUnit)
		for i, c := range resp.Citations {
			outputHuman("  %d. %s\n", resp.Pubs[i], c)
		}
		return nil
	}
	return outputJSON(resp)
}

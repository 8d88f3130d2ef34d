package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scrim-network/pubstats/internal/storage"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <db-file> <query...>",
	Short: "Search a saved report database",
	Long: `Full-text search over the titles and author lists of a report
database written by "pubstats save --sqlite".

Examples:
  pubstats search reports/pubstats.db flood risk
  pubstats search reports/pubstats.db "sea-level" --human`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

// SearchHit is one publication matching a search.
type SearchHit struct {
	Number   int    `json:"number"`
	Citation string `json:"citation"`
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	RunID string      `json:"run_id"`
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	db, err := storage.OpenReportDB(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			exitWithError(ExitConfigError, "no report database at %s (run pubstats save --sqlite)", args[0])
		}
		exitWithError(ExitDataError, "%v", err)
	}
	defer db.Close()

	runID, err := db.RunID()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	query := strings.Join(args[1:], " ")
	indices, err := db.SearchPublications(query, searchLimit)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	resp := SearchResponse{RunID: runID, Query: query, Hits: []SearchHit{}}
	for _, idx := range indices {
		citation, err := db.Citation(idx)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		resp.Hits = append(resp.Hits, SearchHit{Number: idx + 1, Citation: citation})
	}

	if humanOutput {
		if len(resp.Hits) == 0 {
			outputHuman("No publications match %q\n", query)
			return nil
		}
		for _, h := range resp.Hits {
			outputHuman("%4d  %s\n", h.Number, h.Citation)
		}
		return nil
	}
	return outputJSON(resp)
}

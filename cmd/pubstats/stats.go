package main

import (
	"github.com/spf13/cobra"

	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/metrics"
	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/roster"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <key-file> <data-file> [tags...]",
	Short: "Print the report as JSON",
	Long: `Print the report as JSON: every key author with their statistic lists
and every kept publication with its matched author count.

Publication numbers are 1-based, matching the other renderers.

Examples:
  pubstats stats key.csv paperpile.json
  pubstats stats key.csv paperpile.json SCRiM | jq '.authors[0]'`,
	Args: cobra.MinimumNArgs(2),
	RunE: runStats,
}

// AuthorStats is one author in the stats response.
type AuthorStats struct {
	export.Summary
	Statistics map[string][]int `json:"statistics"`
}

// PublicationStats is one kept publication in the stats response.
type PublicationStats struct {
	Number         int    `json:"number"`
	Title          string `json:"title"`
	Year           string `json:"year,omitempty"`
	Authors        int    `json:"authors"`
	MatchedAuthors int    `json:"matched_authors"`
}

// StatsResponse is the response for the stats command.
type StatsResponse struct {
	RunID        string             `json:"run_id"`
	Tags         []string           `json:"tags,omitempty"`
	Read         int                `json:"read"`
	Dropped      map[string]int     `json:"dropped"`
	Warnings     []string           `json:"warnings,omitempty"`
	Authors      []AuthorStats      `json:"authors"`
	Publications []PublicationStats `json:"publications"`
}

func runStats(cmd *cobra.Command, args []string) error {
	rec := metrics.New()
	rep := mustBuildReport(cmd.Context(), args, rec)
	resp := newStatsResponse(rep)
	writeMetrics(rec)

	if humanOutput {
		outputHuman("%d of %d publications kept, %d key authors\n\n",
			len(resp.Publications), resp.Read, len(resp.Authors))
		for _, a := range resp.Authors {
			outputHuman("%-30s total %3d  lead %3d  multi-author %3d  cuca %3d\n",
				a.First+" "+a.Last, a.Total, a.Lead, a.MultiAuthor, a.CrossUnit)
		}
		return nil
	}
	return outputJSON(resp)
}

func newStatsResponse(rep *report.Report) StatsResponse {
	resp := StatsResponse{
		RunID:        rep.RunID.String(),
		Tags:         rep.Tags,
		Read:         rep.Read,
		Dropped:      make(map[string]int, len(rep.Dropped)),
		Authors:      make([]AuthorStats, 0, rep.Authors.Len()),
		Publications: make([]PublicationStats, 0, len(rep.Publications)),
	}
	for reason, n := range rep.Dropped {
		resp.Dropped[string(reason)] = n
	}
	for _, err := range rep.Warnings {
		resp.Warnings = append(resp.Warnings, err.Error())
	}
	for _, rec := range rep.Authors.Records() {
		resp.Authors = append(resp.Authors, authorStats(rec))
	}
	for i, pub := range rep.Publications {
		resp.Publications = append(resp.Publications, PublicationStats{
			Number:         i + 1,
			Title:          pub.Title,
			Year:           pub.Published.Year.String(),
			Authors:        len(pub.Authors),
			MatchedAuthors: pub.MatchedAuthors,
		})
	}
	return resp
}

func authorStats(rec *roster.Record) AuthorStats {
	a := AuthorStats{
		Summary:    export.Summarize(rec),
		Statistics: make(map[string][]int),
	}
	for _, name := range rec.Statistics() {
		pubs := rec.Pubs(name)
		for i := range pubs {
			pubs[i]++
		}
		a.Statistics[name] = pubs
	}
	return a
}

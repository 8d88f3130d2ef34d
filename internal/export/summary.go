// Package export renders a finished report as CSV, text, PDF and BibTeX.
package export

import (
	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/roster"
	"github.com/scrim-network/pubstats/internal/stats"
)

// Summary is the per-author row shared by the CSV, JSON and database
// renderers.
type Summary struct {
	Identity    roster.Identity `json:"identity"`
	Kind        string          `json:"kind"`
	First       string          `json:"first"`
	Last        string          `json:"last"`
	Role        *int            `json:"role,omitempty"`
	Institution string          `json:"institution"`
	Discipline  string          `json:"field"`
	Department  string          `json:"department,omitempty"`

	Total                          int `json:"total"`
	Lead                           int `json:"lead"`
	Coauthor                       int `json:"coauthor"`
	MultiAuthor                    int `json:"multi_author"`
	MultiInstitute                 int `json:"multi_institute"`
	MultiDiscipline                int `json:"multi_discipline"`
	MultiInstituteSingleDiscipline int `json:"multi_institute_single_discipline"`
	MultiDisciplineSingleInstitute int `json:"multi_discipline_single_institute"`
	CrossUnit                      int `json:"cuca"`

	// Pubs lists the 1-based numbers of the authored publications.
	Pubs []int `json:"pubs"`
}

// Summarize builds the summary row of one author.
func Summarize(rec *roster.Record) Summary {
	s := Summary{
		Identity:    rec.Identity,
		Kind:        rec.Kind.String(),
		First:       rec.First,
		Last:        rec.Last,
		Role:        rec.Role,
		Institution: rec.Institution,
		Discipline:  rec.Discipline,
		Department:  rec.Department,

		Total:                          rec.Len(stats.PubsAuthor),
		Lead:                           rec.Len(stats.PubsLead),
		Coauthor:                       rec.Len(stats.PubsCoauthor),
		MultiAuthor:                    rec.Len(stats.PubsMultiAuthor),
		MultiInstitute:                 rec.Len(stats.PubsMultiInstitute),
		MultiDiscipline:                rec.Len(stats.PubsMultidisciplinary),
		MultiInstituteSingleDiscipline: rec.Len(stats.PubsMultiInstituteSingleDiscipline),
		MultiDisciplineSingleInstitute: rec.Len(stats.PubsMultiDisciplineSingleInstitute),
		CrossUnit:                      rec.CrossUnitScore,
		Pubs:                           []int{},
	}
	for _, idx := range rec.Pubs(stats.PubsAuthor) {
		s.Pubs = append(s.Pubs, idx+1)
	}
	return s
}

// Summaries returns one summary per key author, in roster order.
func Summaries(rep *report.Report) []Summary {
	records := rep.Authors.Records()
	out := make([]Summary, len(records))
	for i, rec := range records {
		out[i] = Summarize(rec)
	}
	return out
}

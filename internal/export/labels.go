package export

import (
	"github.com/scrim-network/pubstats/internal/roster"
	"github.com/scrim-network/pubstats/internal/stats"
)

// statLine is one line of an author's statistics block.
type statLine struct {
	name  string
	label string
}

var statLines = []statLine{
	{stats.PubsLead, "lead author"},
	{stats.PubsMultiAuthor, "multiple key authors"},
	{stats.PubsMultiInstitute, "from multiple institutes"},
	{stats.PubsMultidisciplinary, "from multiple disciplines"},
	{stats.PubsMultiInstituteSingleDiscipline, "multiple institutes; single discipline"},
	{stats.PubsMultiDisciplineSingleInstitute, "multiple disciplines; single institute"},
}

// markerColumns are the collaboration flags shown per publication, in
// column order.
var markerColumns = []statLine{
	{stats.PubsMultiAuthor, "multiple key authors"},
	{stats.PubsMultiInstitute, "multiple institutes"},
	{stats.PubsMultidisciplinary, "multiple disciplines"},
	{stats.PubsMultiInstituteSingleDiscipline, "multiple institutes; single discipline"},
	{stats.PubsMultiDisciplineSingleInstitute, "multiple disciplines; single institute"},
}

func markers(rec *roster.Record, index int, mark string) []string {
	out := make([]string, len(markerColumns))
	for i, c := range markerColumns {
		if rec.Contains(c.name, index) {
			out[i] = mark
		}
	}
	return out
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/roster"
)

// Default artifact file names.
const (
	AuthorCSVName = "pubstats1.csv"
	MatrixCSVName = "pubstats2.csv"
)

var authorCSVHeader = []string{
	"first", "last", "total", "lead", "multi_author", "multi_institute",
	"multi_discipline", "multi_institute_single_discipline",
	"multi_discipline_single_institute", "cuca", "pubs",
}

// WriteAuthorCSV writes one row of statistic counts per key author. The pubs
// column holds the 1-based publication numbers separated by semicolons.
func WriteAuthorCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(authorCSVHeader); err != nil {
		return fmt.Errorf("writing author csv header: %w", err)
	}

	for _, s := range Summaries(rep) {
		pubs := make([]string, len(s.Pubs))
		for i, p := range s.Pubs {
			pubs[i] = strconv.Itoa(p)
		}
		row := []string{
			s.First, s.Last,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Lead),
			strconv.Itoa(s.MultiAuthor),
			strconv.Itoa(s.MultiInstitute),
			strconv.Itoa(s.MultiDiscipline),
			strconv.Itoa(s.MultiInstituteSingleDiscipline),
			strconv.Itoa(s.MultiDisciplineSingleInstitute),
			strconv.Itoa(s.CrossUnit),
			strings.Join(pubs, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing author %s: %w", s.Identity, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMatrixCSV writes the publication membership matrix: one row per
// publication, one column per key author, institution and discipline (in
// first-seen roster order). Matched cells hold 1; others are empty.
func WriteMatrixCSV(w io.Writer, rep *report.Report) error {
	records := rep.Authors.Records()

	authorCol := make(map[roster.Identity]int, len(records))
	instCol := make(map[string]int)
	discCol := make(map[string]int)
	var insts, discs []string

	for i, rec := range records {
		authorCol[rec.Identity] = i
		if _, ok := instCol[rec.Institution]; !ok {
			instCol[rec.Institution] = len(insts)
			insts = append(insts, rec.Institution)
		}
		if _, ok := discCol[rec.Discipline]; !ok {
			discCol[rec.Discipline] = len(discs)
			discs = append(discs, rec.Discipline)
		}
	}

	header := make([]string, 0, 1+len(records)+len(insts)+len(discs))
	header = append(header, "pub")
	for _, rec := range records {
		header = append(header, string(rec.Identity))
	}
	header = append(header, insts...)
	header = append(header, discs...)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing matrix csv header: %w", err)
	}

	instBase := 1 + len(records)
	discBase := instBase + len(insts)
	for i, pub := range rep.Publications {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(i + 1)
		for _, a := range pub.Authors {
			id, ok := rep.Authors.Resolve(a)
			if !ok {
				continue
			}
			rec, ok := rep.Authors.Author(id)
			if !ok {
				continue
			}
			row[1+authorCol[id]] = "1"
			row[instBase+instCol[rec.Institution]] = "1"
			row[discBase+discCol[rec.Discipline]] = "1"
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing publication %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

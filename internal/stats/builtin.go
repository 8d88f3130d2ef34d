package stats

import (
	"strings"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
)

// Built-in statistic names. They double as the column keys of every report
// artifact.
const (
	PubsAuthor                         = "pubs_author"
	PubsLead                           = "pubs_lead"
	PubsCoauthor                       = "pubs_coauthor"
	PubsMultiAuthor                    = "pubs_multi_author"
	PubsMultidisciplinary              = "pubs_multidisciplinary"
	PubsMultiInstitute                 = "pubs_multi_institute"
	PubsMultiInstituteSingleDiscipline = "pubs_multi_institute_single_discipline"
	PubsMultiDisciplineSingleInstitute = "pubs_multi_discipline_single_institute"
	PubsCrossUnit                      = "pubs_num_inst_plus_num_dist"
)

// Builtin returns the standard statistics in application order.
func Builtin() []Statistic {
	return []Statistic{
		{Name: PubsAuthor, Apply: author},
		{Name: PubsLead, Apply: lead},
		{Name: PubsCoauthor, Apply: coauthor},
		{Name: PubsMultiAuthor, Apply: multiAuthor},
		{Name: PubsMultidisciplinary, Apply: multidisciplinary},
		{Name: PubsMultiInstitute, Apply: multiInstitute},
		{Name: PubsMultiInstituteSingleDiscipline, Apply: multiInstituteSingleDiscipline},
		{Name: PubsMultiDisciplineSingleInstitute, Apply: multiDisciplineSingleInstitute},
		{Name: PubsCrossUnit, Apply: crossUnit},
	}
}

// ResolvedAuthors returns the key-author records of a publication in author
// list order. An identity listed more than once appears once.
func ResolvedAuthors(pub reference.Publication, reg *roster.Registry) []*roster.Record {
	var out []*roster.Record
	seen := make(map[roster.Identity]struct{})
	for _, a := range pub.Authors {
		id, ok := reg.Resolve(a)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := reg.Author(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

func institution(r *roster.Record) string { return r.Institution }
func discipline(r *roster.Record) string  { return r.Discipline }

// attrValue normalizes an attribute for comparison. A missing value is the
// empty string and only equals other missing values.
func attrValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// isMulti reports whether the records span more than one value of attr,
// using the first record's value as the baseline.
func isMulti(records []*roster.Record, attr func(*roster.Record) string) bool {
	if len(records) < 2 {
		return false
	}
	base := attrValue(attr(records[0]))
	for _, r := range records[1:] {
		if attrValue(attr(r)) != base {
			return true
		}
	}
	return false
}

func addAll(records []*roster.Record, name string, index int) {
	for _, r := range records {
		r.AddPub(name, index)
	}
}

func author(pub reference.Publication, reg *roster.Registry, index int) {
	addAll(ResolvedAuthors(pub, reg), PubsAuthor, index)
}

// lead only looks at list position 0.
func lead(pub reference.Publication, reg *roster.Registry, index int) {
	if len(pub.Authors) == 0 {
		return
	}
	id, ok := reg.Resolve(pub.Authors[0])
	if !ok {
		return
	}
	if rec, ok := reg.Author(id); ok {
		rec.AddPub(PubsLead, index)
	}
}

func coauthor(pub reference.Publication, reg *roster.Registry, index int) {
	seen := make(map[roster.Identity]struct{})
	for pos, a := range pub.Authors {
		if pos == 0 {
			continue
		}
		id, ok := reg.Resolve(a)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := reg.Author(id); ok {
			rec.AddPub(PubsCoauthor, index)
		}
	}
}

func multiAuthor(pub reference.Publication, reg *roster.Registry, index int) {
	records := ResolvedAuthors(pub, reg)
	if len(records) > 1 {
		addAll(records, PubsMultiAuthor, index)
	}
}

func multidisciplinary(pub reference.Publication, reg *roster.Registry, index int) {
	records := ResolvedAuthors(pub, reg)
	if isMulti(records, discipline) {
		addAll(records, PubsMultidisciplinary, index)
	}
}

func multiInstitute(pub reference.Publication, reg *roster.Registry, index int) {
	records := ResolvedAuthors(pub, reg)
	if isMulti(records, institution) {
		addAll(records, PubsMultiInstitute, index)
	}
}

func multiInstituteSingleDiscipline(pub reference.Publication, reg *roster.Registry, index int) {
	records := ResolvedAuthors(pub, reg)
	if isMulti(records, institution) && !isMulti(records, discipline) {
		addAll(records, PubsMultiInstituteSingleDiscipline, index)
	}
}

func multiDisciplineSingleInstitute(pub reference.Publication, reg *roster.Registry, index int) {
	records := ResolvedAuthors(pub, reg)
	if isMulti(records, discipline) && !isMulti(records, institution) {
		addAll(records, PubsMultiDisciplineSingleInstitute, index)
	}
}

// crossUnit adds (distinct disciplines - 1) to every resolved author's
// cross-unit co-authorship score. Institutions are not counted.
func crossUnit(pub reference.Publication, reg *roster.Registry, _ int) {
	records := ResolvedAuthors(pub, reg)
	if len(records) == 0 {
		return
	}
	disciplines := make(map[string]struct{})
	for _, r := range records {
		disciplines[attrValue(r.Discipline)] = struct{}{}
	}
	for _, r := range records {
		r.AddCrossUnit(len(disciplines) - 1)
	}
}

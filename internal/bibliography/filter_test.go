package bibliography

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
)

func parseRecords(t *testing.T, s string) []reference.RawRecord {
	t.Helper()
	var recs []reference.RawRecord
	if err := json.Unmarshal([]byte(s), &recs); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return recs
}

func translation(t *testing.T) roster.Translation {
	t.Helper()
	reg, errs := roster.Build([]roster.KeyRecord{
		{First: "Ann", Last: "Lee", Institution: "X", Discipline: "Bio"},
		{First: "Bo", Last: "Chen", Institution: "Y", Discipline: "Geo"},
	})
	if len(errs) != 0 {
		t.Fatalf("roster.Build() errors = %v", errs)
	}
	return reg.Translation()
}

const fixture = `[
	{"title": "zero", "author": [{"first": "Ann", "last": "Lee"}], "labelsNamed": ["grant-A"], "sha1": "x"},
	{"title": "one", "author": [{"first": "Zoe", "last": "Nobody"}], "labelsNamed": ["grant-A"]},
	{"title": "two", "author": [{"first": "Bo", "last": "Chen"}, {"first": "Ann", "last": "Lee"}, {"last": "Other"}]},
	{"title": "three", "labelsNamed": ["grant-B"]},
	{"title": "four", "author": [{"first": "Ann", "last": "Lee"}], "labelsNamed": ["grant-B"]}
]`

func TestFilter_NoTags(t *testing.T) {
	recs := parseRecords(t, fixture)

	var reasons []DropReason
	pubs, errs := Filter(recs, Options{
		DropFields: DefaultDropFields,
		OnDrop:     func(_ int, r DropReason) { reasons = append(reasons, r) },
	}, translation(t))
	if len(errs) != 0 {
		t.Fatalf("Filter() errors = %v", errs)
	}

	wantTitles := []string{"zero", "two", "four"}
	if len(pubs) != len(wantTitles) {
		t.Fatalf("Filter() kept %d, want %d", len(pubs), len(wantTitles))
	}
	for i, want := range wantTitles {
		if pubs[i].Title != want {
			t.Errorf("pubs[%d].Title = %q, want %q (order must be preserved)", i, pubs[i].Title, want)
		}
	}

	if pubs[1].MatchedAuthors != 2 {
		t.Errorf("MatchedAuthors = %d, want 2", pubs[1].MatchedAuthors)
	}
	if _, ok := pubs[0].Fields["sha1"]; ok {
		t.Error("drop field sha1 survived")
	}

	wantReasons := []DropReason{DropUnmatched, DropNoAuthor}
	if len(reasons) != len(wantReasons) || reasons[0] != wantReasons[0] || reasons[1] != wantReasons[1] {
		t.Errorf("drop reasons = %v, want %v", reasons, wantReasons)
	}
}

func TestFilter_TagFilterDropsUntagged(t *testing.T) {
	recs := parseRecords(t, fixture)

	pubs, _ := Filter(recs, Options{Tags: []string{"grant-A"}}, translation(t))

	// "two" matches authors but has no labelsNamed, so it must go.
	if len(pubs) != 1 || pubs[0].Title != "zero" {
		titles := make([]string, len(pubs))
		for i, p := range pubs {
			titles[i] = p.Title
		}
		t.Errorf("Filter(tags=[grant-A]) = %v, want [zero]", titles)
	}
}

func TestFilter_EmptyTagListKeepsNothing(t *testing.T) {
	pubs, _ := Filter(parseRecords(t, fixture), Options{Tags: []string{}}, translation(t))
	if len(pubs) != 0 {
		t.Errorf("Filter(tags=[]) kept %d, want 0", len(pubs))
	}
}

func TestFilter_CustomTagField(t *testing.T) {
	recs := parseRecords(t, `[
		{"title": "a", "author": [{"first": "Ann", "last": "Lee"}], "keywords": ["ocean"]},
		{"title": "b", "author": [{"first": "Ann", "last": "Lee"}], "keywords": ["land"]}
	]`)
	pubs, _ := Filter(recs, Options{TagField: "keywords", Tags: []string{"ocean"}}, translation(t))
	if len(pubs) != 1 || pubs[0].Title != "a" {
		t.Fatalf("Filter() = %+v", pubs)
	}
	if len(pubs[0].Labels) != 1 || pubs[0].Labels[0] != "ocean" {
		t.Errorf("Labels = %v, want [ocean]", pubs[0].Labels)
	}
}

func TestFilter_MalformedRecordReported(t *testing.T) {
	recs := parseRecords(t, `[
		{"title": "bad", "author": {"first": "Ann"}},
		{"title": "good", "author": [{"first": "Ann", "last": "Lee"}]}
	]`)
	pubs, errs := Filter(recs, Options{}, translation(t))
	if len(errs) != 1 {
		t.Errorf("errors = %v, want 1", errs)
	}
	if len(pubs) != 1 || pubs[0].Title != "good" {
		t.Errorf("Filter() kept %+v", pubs)
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	recs := parseRecords(t, fixture)
	Filter(recs, Options{DropFields: []string{"sha1", "title"}}, translation(t))
	if !recs[0].Has("sha1") || !recs[0].Has("title") {
		t.Error("Filter() modified its input records")
	}
}

func TestCountMatched(t *testing.T) {
	tr := translation(t)

	tests := []struct {
		name    string
		authors []reference.Author
		want    int
	}{
		{"none", nil, 0},
		{"unmatched only", []reference.Author{{First: "X", Last: "Y"}}, 0},
		{"one of two", []reference.Author{{First: "Ann", Last: "Lee"}, {First: "X", Last: "Y"}}, 1},
		{"repeated entry counts twice", []reference.Author{{First: "Ann", Last: "Lee"}, {First: "ann", Last: "lee"}}, 2},
		{"missing last never matches", []reference.Author{{First: "Ann"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountMatched(tt.authors, tr)
			if got != tt.want {
				t.Errorf("CountMatched() = %d, want %d", got, tt.want)
			}
			if got > len(tt.authors) {
				t.Errorf("CountMatched() = %d exceeds author count %d", got, len(tt.authors))
			}
		})
	}
}

func TestFilter_MalformedTagField(t *testing.T) {
	recs := parseRecords(t, `[{"author": [{"first": "Ann", "last": "Lee"}], "labelsNamed": "grant-A"}]`)
	pubs, errs := Filter(recs, Options{Tags: []string{"grant-A"}}, translation(t))
	if len(pubs) != 0 || len(errs) != 1 {
		t.Errorf("Filter() = %d pubs, %v; want 0 pubs and one error", len(pubs), errs)
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(errs[0], &typeErr) {
		t.Errorf("error %v does not wrap the decode error", errs[0])
	}
}

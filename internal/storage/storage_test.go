package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/roster"
	"github.com/scrim-network/pubstats/internal/stats"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func buildReport(t *testing.T) *report.Report {
	t.Helper()
	path := writeFile(t, "pubs.jsonl", strings.Join([]string{
		`{"title":"Sea level rise","author":[{"first":"Ann","last":"Lee"},{"first":"Bo","last":"Chen"}],"published":{"year":"2020"}}`,
		``,
		`{"title":"Flood risk","author":[{"first":"Bo","last":"Chen"}],"published":{"year":2021},"doi":"10.1/x"}`,
		`{"title":"Unrelated","author":[{"first":"No","last":"Body"}]}`,
	}, "\n"))

	raw, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	keys := []roster.KeyRecord{
		{First: "Ann", Last: "Lee", Role: "1", Institution: "PSU", Discipline: "Geo", ID: "A1"},
		{First: "Bo", Last: "Chen", Institution: "RU", Discipline: "Econ"},
	}
	rep, err := report.Build(context.Background(), keys, raw, report.Options{})
	if err != nil {
		t.Fatalf("report.Build() error = %v", err)
	}
	return rep
}

func TestReadRecords(t *testing.T) {
	path := writeFile(t, "pubs.jsonl", "{\"title\":\"a\"}\n\n{\"title\":\"b\",\"extra\":[1,2]}\n")
	recs, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("ReadRecords() returned %d records, want 2", len(recs))
	}
	if !recs[1].Has("extra") {
		t.Error("unknown fields should be preserved")
	}
}

func TestReadRecords_Errors(t *testing.T) {
	if _, err := ReadRecords(filepath.Join(t.TempDir(), "missing.jsonl")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}

	path := writeFile(t, "bad.jsonl", "{\"title\":\"a\"}\nnot json\n")
	_, err := ReadRecords(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadRecords() error = %v, want line 2 parse error", err)
	}
}

func TestWriteAuthorsJSONL(t *testing.T) {
	rep := buildReport(t)
	path := filepath.Join(t.TempDir(), AuthorsJSONLName)
	if err := WriteAuthorsJSONL(path, rep); err != nil {
		t.Fatalf("WriteAuthorsJSONL() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var s export.Summary
	if err := json.Unmarshal([]byte(lines[1]), &s); err != nil {
		t.Fatalf("decoding line: %v", err)
	}
	if s.Identity != "bochen" || s.Total != 2 || s.Lead != 1 || s.CrossUnit != 1 {
		t.Errorf("bochen summary = %+v", s)
	}
	if len(s.Pubs) != 2 || s.Pubs[0] != 1 || s.Pubs[1] != 2 {
		t.Errorf("bochen pubs = %v, want [1 2]", s.Pubs)
	}
}

func TestReportDB(t *testing.T) {
	rep := buildReport(t)
	path := filepath.Join(t.TempDir(), ReportDBName)

	if err := WriteReportDB(path, rep); err != nil {
		t.Fatalf("WriteReportDB() error = %v", err)
	}
	// A second write replaces the first.
	if err := WriteReportDB(path, rep); err != nil {
		t.Fatalf("second WriteReportDB() error = %v", err)
	}

	db, err := OpenReportDB(path)
	if err != nil {
		t.Fatalf("OpenReportDB() error = %v", err)
	}
	defer db.Close()

	runID, err := db.RunID()
	if err != nil {
		t.Fatalf("RunID() error = %v", err)
	}
	if runID != rep.RunID.String() {
		t.Errorf("RunID() = %s, want %s", runID, rep.RunID)
	}

	tests := []struct {
		id        roster.Identity
		statistic string
		want      int
	}{
		{"A1", stats.PubsAuthor, 1},
		{"A1", stats.PubsLead, 1},
		{"bochen", stats.PubsAuthor, 2},
		{"bochen", stats.PubsCoauthor, 1},
		{"bochen", stats.PubsMultiInstitute, 1},
		{"bochen", stats.PubsMultiInstituteSingleDiscipline, 0},
		{"nobody", stats.PubsAuthor, 0},
	}
	for _, tt := range tests {
		got, err := db.StatisticCount(tt.id, tt.statistic)
		if err != nil {
			t.Errorf("StatisticCount(%s, %s) error = %v", tt.id, tt.statistic, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StatisticCount(%s, %s) = %d, want %d", tt.id, tt.statistic, got, tt.want)
		}
	}

	cuca, err := db.CrossUnitScore("A1")
	if err != nil || cuca != 1 {
		t.Errorf("CrossUnitScore(A1) = %d, %v; want 1", cuca, err)
	}

	hits, err := db.SearchPublications("flood", 10)
	if err != nil {
		t.Fatalf("SearchPublications() error = %v", err)
	}
	if len(hits) != 1 || hits[0] != 1 {
		t.Errorf("SearchPublications(flood) = %v, want [1]", hits)
	}
	hits, err = db.SearchPublications("chen", 10)
	if err != nil {
		t.Fatalf("SearchPublications() error = %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("SearchPublications(chen) = %v, want both publications", hits)
	}

	citation, err := db.Citation(1)
	if err != nil {
		t.Fatalf("Citation() error = %v", err)
	}
	if citation != export.Citation(rep.Publications[1], rep.Translation, nil) {
		t.Errorf("Citation(1) = %q", citation)
	}
	if _, err := db.Citation(99); err == nil {
		t.Error("Citation() past the end should fail")
	}
}

func TestOpenReportDB_Missing(t *testing.T) {
	if _, err := OpenReportDB(filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Error("OpenReportDB() on missing file should fail")
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct{ in, want string }{
		{"flood", "flood"},
		{"  sea level ", "sea level"},
		{"CO2-flux", `"CO2-flux"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}


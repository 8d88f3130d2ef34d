// Package storage reads bibliography records from JSONL and persists
// finished reports as JSONL and SQLite.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scrim-network/pubstats/internal/export"
	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/report"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// AuthorsJSONLName is the default file name of the author summaries.
const AuthorsJSONLName = "authors.jsonl"

// ReadRecords reads one raw publication record per line. Blank lines are
// skipped.
func ReadRecords(path string) ([]reference.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	var records []reference.RawRecord
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec reference.RawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}
	return records, nil
}

// WriteAuthorsJSONL writes one author summary per line, replacing the file.
func WriteAuthorsJSONL(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating authors file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, s := range export.Summaries(rep) {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding author %s: %w", s.Identity, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing authors file: %w", err)
	}
	return f.Close()
}

// Package importer reads the roster and bibliography files a report is
// built from.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/scrim-network/pubstats/internal/roster"
)

var (
	// ErrNoHeader is returned when a roster file has no usable header row.
	ErrNoHeader = errors.New("no header row")
	// ErrUnsupportedFormat is returned for file extensions with no reader.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Roster column names.
const (
	ColFirst       = "first"
	ColLast        = "last"
	ColRole        = "role"
	ColInstitution = "institution"
	ColDiscipline  = "field"
	ColDepartment  = "department"
	ColAlias       = "alias"
	ColID          = "ID"
)

// row is one line of a roster file with its 1-based position.
type row struct {
	num   int
	cells []string
}

// ReadKeys reads the key-author roster from a .csv, .xlsx or .xlsm file.
// The first row with any content is the header; rows with no content are
// skipped.
func ReadKeys(path string) ([]roster.KeyRecord, error) {
	var rows []row
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx", ".xlsm":
		rows, err = readXLSXRows(path)
	default:
		return nil, fmt.Errorf("reading roster %s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}

	records, err := parseKeyRows(rows)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return records, nil
}

func readCSVRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []row
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, row{num: line, cells: cells})
	}
	if len(rows) > 0 && len(rows[0].cells) > 0 {
		rows[0].cells[0] = strings.TrimPrefix(rows[0].cells[0], "\ufeff")
	}
	return rows, nil
}

func readXLSXRows(path string) ([]row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	rows := make([]row, len(cells))
	for i, c := range cells {
		rows[i] = row{num: i + 1, cells: c}
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseKeyRows(rows []row) ([]roster.KeyRecord, error) {
	start := -1
	for i, r := range rows {
		if !isBlank(r.cells) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	cols := make(map[string]int)
	for i, name := range rows[start].cells {
		name = strings.TrimSpace(name)
		if name == "id" {
			name = ColID
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if _, ok := cols[ColLast]; !ok {
		return nil, fmt.Errorf("%w: missing %q column", ErrNoHeader, ColLast)
	}

	var records []roster.KeyRecord
	for _, r := range rows[start+1:] {
		if isBlank(r.cells) {
			continue
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(r.cells) {
				return ""
			}
			return r.cells[i]
		}
		records = append(records, roster.KeyRecord{
			First:       get(ColFirst),
			Last:        get(ColLast),
			Role:        get(ColRole),
			Institution: get(ColInstitution),
			Discipline:  get(ColDiscipline),
			Department:  get(ColDepartment),
			Alias:       get(ColAlias),
			ID:          get(ColID),
			Row:         r.num,
		})
	}
	return records, nil
}

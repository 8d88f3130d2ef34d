// Package reference defines the core domain types for bibliography records.
package reference

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Field names of a Paperpile-style record that decode into typed fields.
const (
	FieldAuthor      = "author"
	FieldPublished   = "published"
	FieldTitle       = "title"
	FieldJournal     = "journal"
	FieldJournalFull = "journalfull"
	FieldVolume      = "volume"
	FieldIssue       = "issue"
	FieldPages       = "pages"
	FieldDOI         = "doi"
)

// RawRecord is a publication exactly as read from the bibliography export,
// before any field is dropped or decoded.
type RawRecord map[string]json.RawMessage

// Has reports whether the record carries the named field.
func (r RawRecord) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Delete removes the named fields. Missing fields are ignored.
func (r RawRecord) Delete(fields ...string) {
	for _, f := range fields {
		delete(r, f)
	}
}

// Strings decodes a field holding a list of strings. A missing field
// returns nil with no error.
func (r RawRecord) Strings(field string) ([]string, error) {
	data, ok := r[field]
	if !ok {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", field, err)
	}
	return out, nil
}

// Publication is a decoded bibliography record.
//
// Fields holds every raw field that has no typed counterpart so renderers
// can still reach them. MatchedAuthors is filled in by the bibliography
// filter.
type Publication struct {
	Title       string          `json:"title,omitempty"`
	Authors     []Author        `json:"author"`
	Published   PublicationDate `json:"published"`
	Journal     string          `json:"journal,omitempty"`
	JournalFull string          `json:"journalfull,omitempty"`
	Volume      FlexibleString  `json:"volume,omitempty"`
	Issue       FlexibleString  `json:"issue,omitempty"`
	Pages       FlexibleString  `json:"pages,omitempty"`
	DOI         string          `json:"doi,omitempty"`
	Labels      []string        `json:"labels,omitempty"`

	Fields map[string]json.RawMessage `json:"-"`

	MatchedAuthors int `json:"matched_authors"`
}

// PublicationDate holds the published date as exported. Paperpile writes
// these as strings or numbers depending on the entry.
type PublicationDate struct {
	Year  FlexibleString `json:"year,omitempty"`
	Month FlexibleString `json:"month,omitempty"`
	Day   FlexibleString `json:"day,omitempty"`
}

// YearInt returns the year as an integer, or 0 when it is missing or not numeric.
func (d PublicationDate) YearInt() int {
	y, err := strconv.Atoi(d.Year.String())
	if err != nil {
		return 0
	}
	return y
}

// Decode converts a raw record into a Publication. tagField names the field
// holding the record's tag list (Paperpile uses "labelsNamed").
func Decode(raw RawRecord, tagField string) (Publication, error) {
	var pub Publication
	pub.Fields = make(map[string]json.RawMessage)

	for key, data := range raw {
		var err error
		switch key {
		case FieldAuthor:
			err = json.Unmarshal(data, &pub.Authors)
		case FieldPublished:
			err = json.Unmarshal(data, &pub.Published)
		case FieldTitle:
			err = json.Unmarshal(data, &pub.Title)
		case FieldJournal:
			err = json.Unmarshal(data, &pub.Journal)
		case FieldJournalFull:
			err = json.Unmarshal(data, &pub.JournalFull)
		case FieldVolume:
			err = json.Unmarshal(data, &pub.Volume)
		case FieldIssue:
			err = json.Unmarshal(data, &pub.Issue)
		case FieldPages:
			err = json.Unmarshal(data, &pub.Pages)
		case FieldDOI:
			err = json.Unmarshal(data, &pub.DOI)
		case tagField:
			err = json.Unmarshal(data, &pub.Labels)
		default:
			pub.Fields[key] = data
		}
		if err != nil {
			return Publication{}, fmt.Errorf("decoding %s: %w", key, err)
		}
	}

	return pub, nil
}

package reference

import (
	"encoding/json"
	"testing"
)

func TestFlexibleString_String(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string year", `"2020"`, "2020"},
		{"number year", `2020`, "2020"},
		{"null value", `null`, ""},
		{"float number", `2020.0`, "2020.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexibleString
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("UnmarshalJSON() error = %v", err)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlexibleString_InvalidInput(t *testing.T) {
	for _, input := range []string{`[1,2,3]`, `{"key": "value"}`} {
		var f FlexibleString
		if err := json.Unmarshal([]byte(input), &f); err == nil {
			t.Errorf("UnmarshalJSON(%s) expected error", input)
		}
	}
}

func mustRaw(t *testing.T, s string) RawRecord {
	t.Helper()
	var raw RawRecord
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return raw
}

func TestDecode(t *testing.T) {
	raw := mustRaw(t, `{
		"title": "Sea level rise",
		"author": [{"first": "Ann", "last": "Lee"}, {"last": "IPCC"}],
		"published": {"year": 2020, "month": "3"},
		"journal": "Nature",
		"volume": 12,
		"issue": "4",
		"doi": "10.1/x",
		"labelsNamed": ["grant-A"],
		"publisher": "NPG"
	}`)

	pub, err := Decode(raw, "labelsNamed")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if pub.Title != "Sea level rise" {
		t.Errorf("Title = %q", pub.Title)
	}
	if len(pub.Authors) != 2 {
		t.Fatalf("Authors count = %d, want 2", len(pub.Authors))
	}
	if pub.Authors[1].First != "" || pub.Authors[1].Last != "IPCC" {
		t.Errorf("Authors[1] = %+v, want last-only IPCC", pub.Authors[1])
	}
	if pub.Published.YearInt() != 2020 || pub.Published.Month.String() != "3" {
		t.Errorf("Published = %+v", pub.Published)
	}
	if pub.Volume.String() != "12" || pub.Issue.String() != "4" {
		t.Errorf("Volume/Issue = %q/%q", pub.Volume, pub.Issue)
	}
	if len(pub.Labels) != 1 || pub.Labels[0] != "grant-A" {
		t.Errorf("Labels = %v", pub.Labels)
	}
	if _, ok := pub.Fields["publisher"]; !ok {
		t.Error("untyped field publisher not kept in Fields")
	}
	if _, ok := pub.Fields["labelsNamed"]; ok {
		t.Error("tag field should decode into Labels, not Fields")
	}
}

func TestDecode_BadField(t *testing.T) {
	raw := mustRaw(t, `{"author": "not a list"}`)
	if _, err := Decode(raw, "labelsNamed"); err == nil {
		t.Error("Decode() expected error for malformed author field")
	}
}

func TestRawRecord(t *testing.T) {
	raw := mustRaw(t, `{"sha1": "abc", "labelsNamed": ["a", "b"], "title": "T"}`)

	raw.Delete("sha1", "missing")
	if raw.Has("sha1") {
		t.Error("Delete() left sha1 in place")
	}

	tags, err := raw.Strings("labelsNamed")
	if err != nil || len(tags) != 2 {
		t.Errorf("Strings() = %v, %v", tags, err)
	}
	if tags, err := raw.Strings("nope"); tags != nil || err != nil {
		t.Errorf("Strings(missing) = %v, %v, want nil, nil", tags, err)
	}
	if _, err := raw.Strings("title"); err == nil {
		t.Error("Strings(title) expected error for non-list field")
	}
}

func TestAuthorFullName(t *testing.T) {
	tests := []struct {
		author Author
		want   string
	}{
		{Author{First: "Ann", Last: "Lee"}, "Ann Lee"},
		{Author{Last: "IPCC"}, "IPCC"},
		{Author{First: "Ann"}, "n/a"},
	}
	for _, tt := range tests {
		if got := tt.author.FullName(); got != tt.want {
			t.Errorf("%+v.FullName() = %q, want %q", tt.author, got, tt.want)
		}
	}
}

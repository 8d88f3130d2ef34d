package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/scrim-network/pubstats/internal/bibliography"
	"github.com/scrim-network/pubstats/internal/metrics"
	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
	"github.com/scrim-network/pubstats/internal/stats"
)

func records(t *testing.T, data string) []reference.RawRecord {
	t.Helper()
	var out []reference.RawRecord
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return out
}

var keys = []roster.KeyRecord{
	{First: "Ann", Last: "Lee", Role: "1", Institution: "Penn State", Discipline: "Biology"},
	{First: "Bo", Last: "Chen", Role: "2", Institution: "Penn State", Discipline: "Economics"},
	{First: "", Last: "  "},
}

const bibliographyJSON = `[
  {"title": "Only Ann", "author": [{"first": "Ann", "last": "Lee"}],
   "published": {"year": "2020"}, "labelsNamed": ["grant-A"], "sha1": "abc"},
  {"title": "Untagged", "author": [{"first": "Ann", "last": "Lee"}, {"first": "Bo", "last": "Chen"}],
   "published": {"year": 2021}},
  {"title": "Both", "author": [{"first": "Outside", "last": "Person"}, {"first": "Bo", "last": "Chen"}, {"first": "Ann", "last": "Lee"}],
   "published": {"year": "2022"}, "labelsNamed": ["grant-A", "other"]},
  {"title": "Nobody", "author": [{"first": "Outside", "last": "Person"}], "labelsNamed": ["grant-A"]},
  {"title": "No authors", "labelsNamed": ["grant-A"]}
]`

func TestBuild(t *testing.T) {
	Convey("Given a roster and a tagged bibliography", t, func() {
		raw := records(t, bibliographyJSON)
		rec := metrics.New()
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		opts := Options{
			Filter:   bibliography.Options{Tags: []string{"grant-A"}, DropFields: bibliography.DefaultDropFields},
			Recorder: rec,
			Now:      func() time.Time { return fixed },
		}

		Convey("When the report is built", func() {
			rep, err := Build(context.Background(), keys, raw, opts)
			So(err, ShouldBeNil)

			Convey("Then the roster warning is kept and the registry is complete", func() {
				So(rep.Authors.Len(), ShouldEqual, 2)
				So(len(rep.Warnings), ShouldEqual, 1)
				So(errors.Is(rep.Warnings[0], roster.ErrNoNameKey), ShouldBeTrue)
			})

			Convey("Then only tagged publications with key authors survive", func() {
				So(len(rep.Publications), ShouldEqual, 2)
				So(rep.Publications[0].Title, ShouldEqual, "Only Ann")
				So(rep.Publications[1].Title, ShouldEqual, "Both")
				So(rep.Publications[1].MatchedAuthors, ShouldEqual, 2)
				So(rep.Read, ShouldEqual, 5)
				So(rep.Dropped[bibliography.DropUntagged], ShouldEqual, 1)
				So(rep.Dropped[bibliography.DropUnmatched], ShouldEqual, 1)
				So(rep.Dropped[bibliography.DropNoAuthor], ShouldEqual, 1)
			})

			Convey("Then statistics use the filtered index space", func() {
				ann, _ := rep.Author("annlee")
				bo, _ := rep.Author("bochen")
				So(ann.Pubs(stats.PubsAuthor), ShouldResemble, []int{0, 1})
				So(ann.Pubs(stats.PubsLead), ShouldResemble, []int{0})
				So(ann.Pubs(stats.PubsCoauthor), ShouldResemble, []int{1})
				So(bo.Pubs(stats.PubsMultidisciplinary), ShouldResemble, []int{1})
				So(bo.CrossUnitScore, ShouldEqual, 1)
			})

			Convey("Then the run is stamped", func() {
				So(rep.Generated, ShouldEqual, fixed)
				So(rep.RunID.String(), ShouldNotBeEmpty)
				So(rep.Translation, ShouldNotBeNil)
			})

			Convey("Then dropped fields are gone from the kept publications", func() {
				_, ok := rep.Publications[0].Fields["sha1"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := Build(ctx, keys, raw, opts)

			Convey("Then Build fails with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestBuild_CustomStatistics(t *testing.T) {
	raw := records(t, bibliographyJSON)
	calls := 0
	custom := []stats.Statistic{{
		Name: "count",
		Apply: func(reference.Publication, *roster.Registry, int) {
			calls++
		},
	}}

	rep, err := Build(context.Background(), keys, raw, Options{Statistics: custom})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// No tag filter: every record with a key author survives.
	if len(rep.Publications) != 3 {
		t.Fatalf("kept %d publications, want 3", len(rep.Publications))
	}
	if calls != 3 {
		t.Errorf("custom statistic ran %d times, want 3", calls)
	}
	ann, _ := rep.Author("annlee")
	if ann.Has(stats.PubsAuthor) {
		t.Error("built-in statistics ran despite replacement")
	}
}

func TestReport_Publication(t *testing.T) {
	rep := &Report{Publications: []reference.Publication{{Title: "a"}}}
	if p, ok := rep.Publication(0); !ok || p.Title != "a" {
		t.Errorf("Publication(0) = %v, %v", p, ok)
	}
	if _, ok := rep.Publication(1); ok {
		t.Error("Publication(1) ok for out-of-range index")
	}
}

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a fresh recorder", t, func() {
		r := New()

		Convey("When a run is recorded", func() {
			r.PublicationsRead(5)
			r.PublicationDropped("untagged")
			r.PublicationDropped("untagged")
			r.PublicationDropped("unmatched")
			r.PublicationsKept(2)
			r.AuthorsRegistered(3)
			r.StatisticApplied("pubs_author")
			r.StatisticApplied("pubs_author")
			r.StatisticFailed("pubs_lead")
			r.ObserveRun(1500 * time.Millisecond)

			Convey("Then counters and gauges hold the recorded values", func() {
				So(testutil.ToFloat64(r.publicationsRead), ShouldEqual, 5)
				So(testutil.ToFloat64(r.publicationsDropped.WithLabelValues("untagged")), ShouldEqual, 2)
				So(testutil.ToFloat64(r.publicationsDropped.WithLabelValues("unmatched")), ShouldEqual, 1)
				So(testutil.ToFloat64(r.publicationsKept), ShouldEqual, 2)
				So(testutil.ToFloat64(r.authorsRegistered), ShouldEqual, 3)
				So(testutil.ToFloat64(r.statisticApplied.WithLabelValues("pubs_author")), ShouldEqual, 2)
				So(testutil.ToFloat64(r.statisticFailed.WithLabelValues("pubs_lead")), ShouldEqual, 1)
				So(testutil.ToFloat64(r.runDuration), ShouldEqual, 1.5)
			})

			Convey("Then the textfile contains the namespaced metrics", func() {
				path := filepath.Join(t.TempDir(), "pubstats.prom")
				So(r.WriteTextfile(path), ShouldBeNil)

				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				text := string(data)
				So(text, ShouldContainSubstring, "pubstats_publications_read_total 5")
				So(text, ShouldContainSubstring, `pubstats_publications_dropped_total{reason="untagged"} 2`)
				So(text, ShouldContainSubstring, "pubstats_run_duration_seconds 1.5")
			})
		})
	})
}

func TestRecorder_Isolated(t *testing.T) {
	a := New()
	b := New(WithNamespace("other"), WithConstLabels(map[string]string{"run": "abc"}))

	a.PublicationsRead(3)

	if got := testutil.ToFloat64(b.publicationsRead); got != 0 {
		t.Errorf("second recorder read = %v, want 0", got)
	}
	if n := testutil.CollectAndCount(b.publicationsRead); n != 1 {
		t.Errorf("CollectAndCount = %d, want 1", n)
	}

	path := filepath.Join(t.TempDir(), "other.prom")
	if err := b.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `other_publications_read_total{run="abc"} 0`) {
		t.Errorf("textfile missing const-labelled metric:\n%s", data)
	}
}

// Package bibliography selects the publications a report is computed over.
package bibliography

import (
	"fmt"
	"maps"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
)

// DefaultTagField is the Paperpile field holding a publication's labels.
const DefaultTagField = "labelsNamed"

// DefaultDropFields are Paperpile bookkeeping fields with no bearing on the
// report.
var DefaultDropFields = []string{
	"dup_sha1", "sha1", "test", "pdf_restricted", "incomplete", "updated",
	"autocompleted", "id_list", "pages", "folders", "collection_timestamps",
	"trashed", "original_id", "labels", "crawl_urls", "citekey",
	"original_citekey", "imported", "owner", "attachments", "journal_checked",
	"created", "subfolders", "autoCleaned", "dup_group_last", "dup_group_first",
	"owner_email", "source_id", "view_context_open", "gs_bibtex",
	"gs_cluster_id", "duplicates", "note", "view_expanded", "editing_note",
}

// DropReason says why a record did not survive the filter.
type DropReason string

const (
	DropUntagged  DropReason = "untagged"
	DropNoAuthor  DropReason = "no_author"
	DropMalformed DropReason = "malformed"
	DropUnmatched DropReason = "unmatched"
)

// Options control Filter.
type Options struct {
	// DropFields are removed from every record before decoding.
	DropFields []string

	// TagField names the field holding a record's tags. Defaults to
	// DefaultTagField.
	TagField string

	// Tags enables tag filtering when non-nil: only records sharing at least
	// one tag survive, and records without a tag field are dropped.
	Tags []string

	// OnDrop, if set, is called for every dropped record with its position
	// in the input.
	OnDrop func(position int, reason DropReason)
}

// Filter returns the publications usable for author statistics, in input
// order, each annotated with MatchedAuthors.
//
// The input records are not modified. Records that fail to decode are
// dropped and reported in the returned errors.
func Filter(raw []reference.RawRecord, opts Options, tr roster.Translation) ([]reference.Publication, []error) {
	tagField := opts.TagField
	if tagField == "" {
		tagField = DefaultTagField
	}

	var allowed map[string]struct{}
	if opts.Tags != nil {
		allowed = make(map[string]struct{}, len(opts.Tags))
		for _, t := range opts.Tags {
			allowed[t] = struct{}{}
		}
	}

	drop := func(pos int, reason DropReason) {
		if opts.OnDrop != nil {
			opts.OnDrop(pos, reason)
		}
	}

	var pubs []reference.Publication
	var errs []error

	for pos, in := range raw {
		rec := maps.Clone(in)
		rec.Delete(opts.DropFields...)

		if allowed != nil {
			tags, err := rec.Strings(tagField)
			if err != nil {
				errs = append(errs, fmt.Errorf("publication %d: %w", pos+1, err))
				drop(pos, DropMalformed)
				continue
			}
			if !intersects(tags, allowed) {
				drop(pos, DropUntagged)
				continue
			}
		}

		if !rec.Has(reference.FieldAuthor) {
			drop(pos, DropNoAuthor)
			continue
		}

		pub, err := reference.Decode(rec, tagField)
		if err != nil {
			errs = append(errs, fmt.Errorf("publication %d: %w", pos+1, err))
			drop(pos, DropMalformed)
			continue
		}

		pub.MatchedAuthors = CountMatched(pub.Authors, tr)
		if pub.MatchedAuthors == 0 {
			drop(pos, DropUnmatched)
			continue
		}

		pubs = append(pubs, pub)
	}

	return pubs, errs
}

// CountMatched returns how many entries of an author list resolve to a key
// author. Repeated entries count each time they appear.
func CountMatched(authors []reference.Author, tr roster.Translation) int {
	n := 0
	for _, a := range authors {
		if _, ok := tr.Resolve(a.First, a.Last); ok {
			n++
		}
	}
	return n
}

func intersects(tags []string, allowed map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := allowed[t]; ok {
			return true
		}
	}
	return false
}

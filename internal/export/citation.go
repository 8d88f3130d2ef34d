package export

import (
	"strings"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
)

// Highlighter decorates the name of a key author inside a citation.
type Highlighter func(name string) string

// Citation formats a publication as
//
//	authors (year): title, journal, volume(issue), pages, DOI: doi.
//
// Missing parts are left out; a missing year prints as "n/a". When hl is
// non-nil, authors resolving through tr are passed through it.
func Citation(pub reference.Publication, tr roster.Translation, hl Highlighter) string {
	var b strings.Builder
	b.WriteString(formatAuthorList(pub.Authors, tr, hl))

	year := pub.Published.Year.String()
	if year == "" {
		year = "n/a"
	}
	b.WriteString(" (" + year + ")")

	if pub.Title != "" {
		b.WriteString(": " + pub.Title)
	}
	switch {
	case pub.Journal != "":
		b.WriteString(", " + pub.Journal)
	case pub.JournalFull != "":
		b.WriteString(", " + pub.JournalFull)
	}
	switch {
	case pub.Volume != "" && pub.Issue != "":
		b.WriteString(", " + pub.Volume.String() + "(" + pub.Issue.String() + ")")
	case pub.Volume != "":
		b.WriteString(", " + pub.Volume.String())
	}
	if pub.Pages != "" {
		b.WriteString(", " + pub.Pages.String())
	}
	if pub.DOI != "" {
		b.WriteString(", DOI: " + pub.DOI)
	}
	b.WriteString(".")
	return b.String()
}

func formatAuthorList(authors []reference.Author, tr roster.Translation, hl Highlighter) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		name := a.FullName()
		if hl != nil && tr != nil {
			if _, ok := tr.Resolve(a.First, a.Last); ok {
				name = hl(name)
			}
		}
		names[i] = name
	}
	return strings.Join(names, ", ")
}

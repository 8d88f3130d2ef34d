package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/report"
)

// BibTeXName is the default file name of the BibTeX artifact.
const BibTeXName = "pubstats.bib"

// ToBibTeX converts a publication to a BibTeX entry with the given key.
func ToBibTeX(pub reference.Publication, key string) string {
	entryType := determineEntryType(pub)
	var b strings.Builder

	fmt.Fprintf(&b, "@%s{%s,\n", entryType, key)

	if len(pub.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", formatAuthors(pub.Authors))
	}
	fmt.Fprintf(&b, "  title = {%s},\n", escapeLatex(pub.Title))

	if venue := venueOf(pub); venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", fieldName, escapeLatex(venue))
	}
	if pub.Volume != "" {
		fmt.Fprintf(&b, "  volume = {%s},\n", pub.Volume)
	}
	if pub.Issue != "" {
		fmt.Fprintf(&b, "  number = {%s},\n", pub.Issue)
	}
	if pub.Pages != "" {
		fmt.Fprintf(&b, "  pages = {%s},\n", pub.Pages)
	}
	if pub.Published.Year != "" {
		fmt.Fprintf(&b, "  year = {%s},\n", pub.Published.Year)
	}
	if pub.Published.Month != "" {
		fmt.Fprintf(&b, "  month = {%s},\n", pub.Published.Month)
	}
	if pub.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", pub.DOI)
	}
	if len(pub.Labels) > 0 {
		fmt.Fprintf(&b, "  keywords = {%s},\n", escapeLatex(strings.Join(pub.Labels, ", ")))
	}

	b.WriteString("}\n")
	return b.String()
}

// CitationKeys returns one BibTeX key per publication: first author's last
// name and year, with a letter suffix when the pair repeats.
func CitationKeys(pubs []reference.Publication) []string {
	keys := make([]string, len(pubs))
	seen := make(map[string]int)
	for i, pub := range pubs {
		base := "anon"
		if len(pub.Authors) > 0 {
			if s := keyPart(pub.Authors[0].Last); s != "" {
				base = s
			}
		}
		if y := keyPart(pub.Published.Year.String()); y != "" {
			base += y
		}

		n := seen[base]
		seen[base] = n + 1
		keys[i] = base
		if n > 0 {
			keys[i] = fmt.Sprintf("%s%c", base, 'a'+n)
		}
	}
	return keys
}

func keyPart(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, s)
}

// WriteBibTeX writes the filtered bibliography as BibTeX.
func WriteBibTeX(w io.Writer, rep *report.Report) error {
	keys := CitationKeys(rep.Publications)
	for i, pub := range rep.Publications {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ToBibTeX(pub, keys[i])); err != nil {
			return fmt.Errorf("writing entry %s: %w", keys[i], err)
		}
	}
	return nil
}

func venueOf(pub reference.Publication) string {
	if pub.Journal != "" {
		return pub.Journal
	}
	return pub.JournalFull
}

// determineEntryType returns the BibTeX entry type for a publication.
func determineEntryType(pub reference.Publication) string {
	venue := strings.ToLower(venueOf(pub))

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}
	return "article"
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.First))
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}

package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/scrim-network/pubstats/internal/report"
	"github.com/scrim-network/pubstats/internal/stats"
)

const (
	textWrapWidth      = 70
	textTitleMaxLen    = 50
	bibliographyIndent = "     "
)

// WriteText writes the terminal report: a block per key author followed by
// the numbered bibliography.
func WriteText(w io.Writer, rep *report.Report) error {
	bw := bufio.NewWriter(w)

	for _, rec := range rep.Authors.Records() {
		fmt.Fprintf(bw, "%s\n\n", rec.FullName())

		if !rec.Has(stats.PubsAuthor) {
			fmt.Fprint(bw, "  no publications\n\n")
			continue
		}

		fmt.Fprintf(bw, "  total publications: %d\n", rec.Len(stats.PubsAuthor))
		for _, l := range statLines {
			if rec.Has(l.name) {
				fmt.Fprintf(bw, "  %s: %d\n", l.label, rec.Len(l.name))
			}
		}
		fmt.Fprintf(bw, "  cross-unit co-authorship: %d\n", rec.CrossUnitScore)

		fmt.Fprint(bw, "\n  Publications\n")
		tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  #\t1\t2\t3\t4\t5\tn auth\tkey\tother\ttitle")
		for _, idx := range rec.Pubs(stats.PubsAuthor) {
			pub := rep.Publications[idx]
			cells := markers(rec, idx, "X")
			fmt.Fprintf(tw, "  %d\t%s\t%d\t%d\t%d\t%s\n",
				idx+1,
				strings.Join(cells, "\t"),
				len(pub.Authors),
				pub.MatchedAuthors,
				len(pub.Authors)-pub.MatchedAuthors,
				truncateString(pub.Title, textTitleMaxLen))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("writing publication table: %w", err)
		}
		for i, c := range markerColumns {
			fmt.Fprintf(bw, "  %d: %s\n", i+1, c.label)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\nBibliography\n")
	for i, pub := range rep.Publications {
		num := fmt.Sprintf("%-4d ", i+1)
		fmt.Fprintf(bw, "%s%s\n", num, wrapText(Citation(pub, rep.Translation, nil), textWrapWidth, bibliographyIndent))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// truncateString shortens s to maxLen runes, ending in "..." when cut.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// wrapText wraps text to width with indent on continuation lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case line.Len()+1+len(word) <= width:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n"+indent)
}

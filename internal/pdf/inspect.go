// Package pdf reads rendered reports back and opens them in a viewer.
package pdf

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Info describes a rendered PDF.
type Info struct {
	Pages int    `json:"pages"`
	Bytes int64  `json:"bytes"`
	Text  string `json:"-"`
}

// Inspect reads the PDF at path and extracts its page count and text.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return InspectReader(f, st.Size())
}

// InspectReader is Inspect for an already open document.
func InspectReader(r io.ReaderAt, size int64) (*Info, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("parsing pdf: %w", err)
	}

	info := &Info{Pages: pdfReader.NumPage(), Bytes: size}
	var builder strings.Builder
	for i := 1; i <= info.Pages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	info.Text = builder.String()

	return info, nil
}

// Contains reports whether s occurs in the document text. Whitespace is
// ignored on both sides since extracted text loses most word breaks.
func (i *Info) Contains(s string) bool {
	return strings.Contains(squash(i.Text), squash(s))
}

// DOIs returns the distinct DOIs printed in the document, in order.
func (i *Info) DOIs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, match := range doiPattern.FindAllString(i.Text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if !isValidDOI(match) || seen[match] {
			continue
		}
		seen[match] = true
		out = append(out, match)
	}
	return out
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

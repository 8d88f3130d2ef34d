package export

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/scrim-network/pubstats/internal/report"
)

var (
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	doiFieldRegex   = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// BibTeXIndex records the keys and DOIs already present in a .bib file.
type BibTeXIndex struct {
	Keys map[string]bool
	// DOIs maps normalized DOIs to citation keys.
	DOIs map[string]string
}

// NewBibTeXIndex creates an empty index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// HasEntry reports whether an entry exists. DOI is matched first; the key is
// the fallback when doi is empty.
func (idx *BibTeXIndex) HasEntry(key, doi string) bool {
	if doi != "" {
		_, ok := idx.DOIs[normalizeDOI(doi)]
		return ok
	}
	return idx.Keys[key]
}

// ReadBibTeXIndex indexes an existing .bib file. A missing file yields an
// empty index.
func ReadBibTeXIndex(path string) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("opening bibtex file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentKey string
	for scanner.Scan() {
		line := scanner.Text()
		if m := entryStartRegex.FindStringSubmatch(line); len(m) > 1 {
			currentKey = strings.TrimSpace(m[1])
			idx.Keys[currentKey] = true
		}
		if m := doiFieldRegex.FindStringSubmatch(line); len(m) > 1 {
			if doi := normalizeDOI(m[1]); doi != "" && currentKey != "" {
				idx.DOIs[doi] = currentKey
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading bibtex file: %w", err)
	}
	return idx, nil
}

// AppendBibTeX appends the report's publications to a .bib file, skipping
// entries already present by DOI or key. It returns how many were added.
func AppendBibTeX(path string, rep *report.Report) (int, error) {
	idx, err := ReadBibTeXIndex(path)
	if err != nil {
		return 0, err
	}

	var b strings.Builder
	added := 0
	for i, key := range CitationKeys(rep.Publications) {
		pub := rep.Publications[i]
		if idx.HasEntry(key, pub.DOI) {
			continue
		}
		b.WriteString("\n")
		b.WriteString(ToBibTeX(pub, key))
		idx.Keys[key] = true
		if pub.DOI != "" {
			idx.DOIs[normalizeDOI(pub.DOI)] = key
		}
		added++
	}
	if added == 0 {
		return 0, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening bibtex file for append: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(b.String()); err != nil {
		return 0, fmt.Errorf("appending bibtex entries: %w", err)
	}
	return added, nil
}

// normalizeDOI strips resolver prefixes and lowercases a DOI.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

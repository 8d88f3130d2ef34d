// Package fake generates a synthetic roster and Paperpile export for
// demonstrations and tests.
package fake

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/scrim-network/pubstats/internal/importer"
	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/roster"
)

// Output file names.
const (
	KeyFileName  = "key.csv"
	DataFileName = "paperpile.json"
)

// DefaultSeed reproduces the bundled demonstration data set.
const DefaultSeed = 555

// authorsPerPublication is the length of every generated author list.
const authorsPerPublication = 5

// groupSize is the period of the institution and discipline patterns.
// Within each group six authors share an institution and six share a
// discipline, so the multi-* statistics all see some traffic.
const groupSize = 10

// Options controls generation.
type Options struct {
	Seed         uint64
	Authors      int
	Publications int
	Labels       []string
}

// DefaultOptions returns the demonstration data set parameters.
func DefaultOptions() Options {
	return Options{
		Seed:         DefaultSeed,
		Authors:      99,
		Publications: 499,
		Labels:       []string{"label1", "label2", "label3"},
	}
}

// Publication is one generated bibliography entry.
type Publication struct {
	Title       string             `json:"title"`
	Journal     string             `json:"journal"`
	JournalFull string             `json:"journalfull"`
	Publisher   string             `json:"publisher"`
	Labels      []string           `json:"labelsNamed"`
	Published   map[string]int     `json:"published"`
	Authors     []reference.Author `json:"author"`
}

// Dataset is a generated roster and bibliography.
type Dataset struct {
	Keys         []roster.KeyRecord
	Publications []Publication
}

// Generate builds a data set. The same options always produce the same
// data unless Seed is 0, which picks a random seed.
func Generate(opts Options) (*Dataset, error) {
	if opts.Authors < 0 || opts.Publications < 0 {
		return nil, fmt.Errorf("negative size: %d authors, %d publications", opts.Authors, opts.Publications)
	}
	if len(opts.Labels) == 0 {
		opts.Labels = DefaultOptions().Labels
	}

	f := gofakeit.New(opts.Seed)
	ds := &Dataset{
		Keys:         generateKeys(f, opts.Authors),
		Publications: make([]Publication, 0, opts.Publications),
	}

	order := make([]int, len(ds.Keys))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < opts.Publications; i++ {
		// Five equal tiers carrying 0 to 4 key authors.
		want := min(i*authorsPerPublication/opts.Publications, len(ds.Keys))
		f.ShuffleInts(order)

		authors := make([]reference.Author, 0, authorsPerPublication)
		for _, idx := range order[:want] {
			authors = append(authors, reference.Author{First: ds.Keys[idx].First, Last: ds.Keys[idx].Last})
		}
		for len(authors) < authorsPerPublication {
			authors = append(authors, reference.Author{First: f.FirstName(), Last: f.LastName()})
		}

		journal := f.BS()
		ds.Publications = append(ds.Publications, Publication{
			Title:       f.Sentence(8),
			Journal:     journal,
			JournalFull: journal,
			Publisher:   f.Company(),
			Labels:      []string{opts.Labels[f.IntN(len(opts.Labels))]},
			Published:   map[string]int{"year": f.Year()},
			Authors:     authors,
		})
	}

	return ds, nil
}

func generateKeys(f *gofakeit.Faker, n int) []roster.KeyRecord {
	inst := make([]string, groupSize)
	disc := make([]string, groupSize)
	sharedInst, sharedDisc := f.Company(), f.JobTitle()
	for i := range groupSize {
		inst[i], disc[i] = sharedInst, sharedDisc
	}
	for i := 6; i < groupSize; i++ {
		inst[i] = f.Company()
	}
	for i := 0; i < 4; i++ {
		disc[i] = f.JobTitle()
	}

	keys := make([]roster.KeyRecord, n)
	for i := range keys {
		g := i % groupSize
		keys[i] = roster.KeyRecord{
			First:       f.FirstName(),
			Last:        f.LastName(),
			Role:        strconv.Itoa(f.IntRange(1, 9)),
			Institution: inst[g],
			Discipline:  disc[g],
			Department:  f.Noun(),
			Alias:       f.Word(),
			ID:          strconv.Itoa(i + 1),
			Row:         i + 1,
		}
	}
	return keys
}

// WriteKeyCSV writes the roster in the column layout importer.ReadKeys reads.
func (ds *Dataset) WriteKeyCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		importer.ColFirst, importer.ColLast, importer.ColRole, importer.ColInstitution,
		importer.ColDiscipline, importer.ColDepartment, importer.ColAlias, importer.ColID,
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, k := range ds.Keys {
		if err := cw.Write([]string{k.First, k.Last, k.Role, k.Institution, k.Discipline, k.Department, k.Alias, k.ID}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePublications writes the bibliography as an indented JSON array.
func (ds *Dataset) WritePublications(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds.Publications)
}

// WriteFiles writes key.csv and paperpile.json into dir, creating it if
// needed, and returns the two paths.
func (ds *Dataset) WriteFiles(dir string) (keyPath, dataPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("creating %s: %w", dir, err)
	}
	keyPath = filepath.Join(dir, KeyFileName)
	dataPath = filepath.Join(dir, DataFileName)
	if err := writeFile(keyPath, ds.WriteKeyCSV); err != nil {
		return "", "", err
	}
	if err := writeFile(dataPath, ds.WritePublications); err != nil {
		return "", "", err
	}
	return keyPath, dataPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

package roster

import (
	"slices"
	"sort"

	"github.com/scrim-network/pubstats/internal/author"
)

// Record accumulates the profile and statistics of one key author.
//
// Statistic lists hold 0-based publication indices in the order they were
// added and are created on first write. A Record is only mutated during the
// statistics pass.
type Record struct {
	Identity Identity
	Kind     IdentityKind
	Key      author.Key

	First       string
	Last        string
	Role        *int // nil when the roster value is empty or not an integer
	Institution string
	Discipline  string
	Department  string
	Alias       string
	ID          string

	// CrossUnitScore is the cross-unit co-authorship (cuca) accumulator.
	CrossUnitScore int

	pubs map[string][]int
}

// AddPub appends a publication index to the named statistic list.
func (r *Record) AddPub(name string, index int) {
	if r.pubs == nil {
		r.pubs = make(map[string][]int)
	}
	r.pubs[name] = append(r.pubs[name], index)
}

// AddCrossUnit adds n to the cross-unit co-authorship score.
func (r *Record) AddCrossUnit(n int) {
	r.CrossUnitScore += n
}

// Pubs returns a copy of the named statistic list, or nil if the statistic
// never fired for this author.
func (r *Record) Pubs(name string) []int {
	return slices.Clone(r.pubs[name])
}

// Len returns the length of the named statistic list.
func (r *Record) Len(name string) int {
	return len(r.pubs[name])
}

// Has reports whether the named statistic list exists.
func (r *Record) Has(name string) bool {
	_, ok := r.pubs[name]
	return ok
}

// Contains reports whether publication index is in the named list.
func (r *Record) Contains(name string, index int) bool {
	return slices.Contains(r.pubs[name], index)
}

// Statistics returns the names of all statistic lists, sorted.
func (r *Record) Statistics() []string {
	names := make([]string, 0, len(r.pubs))
	for name := range r.pubs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FullName formats the author as "First Last".
func (r *Record) FullName() string {
	if r.First == "" {
		return r.Last
	}
	return r.First + " " + r.Last
}

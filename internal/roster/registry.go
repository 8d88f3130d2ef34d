// Package roster builds the registry of key authors and the name-key
// translation table used to match publication authors against it.
package roster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scrim-network/pubstats/internal/author"
	"github.com/scrim-network/pubstats/internal/reference"
)

var (
	// ErrNoNameKey is reported for roster rows without a usable last name.
	ErrNoNameKey = errors.New("no name key")
	// ErrAmbiguousName is reported when a later roster row derives a name key
	// already translated to a different identity.
	ErrAmbiguousName = errors.New("ambiguous name")
)

// Identity is the unique handle of a key author: an explicit ID, an alias,
// or the derived name key, in that priority.
type Identity string

// IdentityKind records which roster column produced an Identity.
type IdentityKind int

const (
	KindNameKey IdentityKind = iota
	KindAlias
	KindID
)

func (k IdentityKind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindAlias:
		return "alias"
	default:
		return "name"
	}
}

// KeyRecord is one row of the roster file.
type KeyRecord struct {
	First       string `json:"first"`
	Last        string `json:"last"`
	Role        string `json:"role"`
	Institution string `json:"institution"`
	Discipline  string `json:"field"`
	Department  string `json:"department,omitempty"`
	Alias       string `json:"alias,omitempty"`
	ID          string `json:"ID,omitempty"`

	Row int `json:"-"` // 1-based data row in the source file, 0 if unknown
}

// Translation maps name keys to author identities.
type Translation map[author.Key]Identity

// Resolve derives the name key for (first, last) and translates it.
func (t Translation) Resolve(first, last string) (Identity, bool) {
	key, ok := author.Derive(first, last)
	if !ok {
		return "", false
	}
	id, ok := t[key]
	return id, ok
}

// Registry holds every key author by identity, in roster order.
type Registry struct {
	authors     map[Identity]*Record
	order       []Identity
	translation Translation
}

// Build creates the registry from roster rows in file order.
//
// Rows that derive no name key are skipped. When two rows share a name key
// the first translation is kept; the later row is reported with
// ErrAmbiguousName if it resolved to a different identity. The returned
// errors are informational; the registry is always usable.
func Build(records []KeyRecord) (*Registry, []error) {
	reg := &Registry{
		authors:     make(map[Identity]*Record),
		translation: make(Translation),
	}
	var errs []error

	for i, rec := range records {
		row := rec.Row
		if row == 0 {
			row = i + 1
		}

		key, ok := author.Derive(rec.First, rec.Last)
		if !ok {
			errs = append(errs, fmt.Errorf("roster row %d (%q %q): %w", row, rec.First, rec.Last, ErrNoNameKey))
			continue
		}

		id, kind := identityFor(rec, key)

		if existing, seen := reg.translation[key]; !seen {
			reg.translation[key] = id
		} else if existing != id {
			errs = append(errs, fmt.Errorf("roster row %d: %q already maps to %q, not %q: %w",
				row, key, existing, id, ErrAmbiguousName))
		}

		if _, exists := reg.authors[id]; exists {
			continue
		}
		reg.authors[id] = newRecord(rec, id, kind, key)
		reg.order = append(reg.order, id)
	}

	return reg, errs
}

func identityFor(rec KeyRecord, key author.Key) (Identity, IdentityKind) {
	if id := strings.TrimSpace(rec.ID); id != "" {
		return Identity(id), KindID
	}
	if alias := strings.TrimSpace(rec.Alias); alias != "" {
		return Identity(alias), KindAlias
	}
	return Identity(key), KindNameKey
}

func newRecord(rec KeyRecord, id Identity, kind IdentityKind, key author.Key) *Record {
	r := &Record{
		Identity:    id,
		Kind:        kind,
		Key:         key,
		First:       strings.TrimSpace(rec.First),
		Last:        strings.TrimSpace(rec.Last),
		Institution: strings.TrimSpace(rec.Institution),
		Discipline:  strings.TrimSpace(rec.Discipline),
		Department:  strings.TrimSpace(rec.Department),
		Alias:       strings.TrimSpace(rec.Alias),
		ID:          strings.TrimSpace(rec.ID),
	}
	if role, err := strconv.Atoi(strings.TrimSpace(rec.Role)); err == nil {
		r.Role = &role
	}
	return r
}

// Author returns the record for an identity.
func (r *Registry) Author(id Identity) (*Record, bool) {
	rec, ok := r.authors[id]
	return rec, ok
}

// Records returns the records in roster order.
func (r *Registry) Records() []*Record {
	out := make([]*Record, len(r.order))
	for i, id := range r.order {
		out[i] = r.authors[id]
	}
	return out
}

// Identities returns the identities in roster order.
func (r *Registry) Identities() []Identity {
	out := make([]Identity, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of key authors.
func (r *Registry) Len() int {
	return len(r.order)
}

// Translation returns the name-key translation table. Callers must not
// modify it.
func (r *Registry) Translation() Translation {
	return r.translation
}

// Resolve translates a publication author to a key-author identity.
func (r *Registry) Resolve(a reference.Author) (Identity, bool) {
	return r.translation.Resolve(a.First, a.Last)
}

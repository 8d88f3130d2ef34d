package author

import "strings"

// Query represents a parsed author name typed on the command line.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// ParseQuery parses an author name into a structured Query.
//
// Supported formats:
//   - "Lee"          → last="Lee" (single word = last name only)
//   - "Ann Lee"      → first="Ann", last="Lee" (space-separated = First Last)
//   - "Lee, Ann"     → first="Ann", last="Lee" (comma = Last, First)
//
// Multi-word last names need the comma form ("Van Dyke, Jo").
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if idx := strings.Index(input, ","); idx > 0 {
		return Query{
			First: strings.TrimSpace(input[idx+1:]),
			Last:  strings.TrimSpace(input[:idx]),
		}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Query{Last: parts[0]}
	}

	// "Ann B Lee" → first="Ann B", last="Lee"
	return Query{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// Key derives the lookup key for the query.
func (q Query) Key() (Key, bool) {
	return Derive(q.First, q.Last)
}

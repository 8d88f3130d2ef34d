// Package author provides author name normalization and query parsing.
package author

import "strings"

// Key is the normalized form of an author name used to match publication
// authors against the roster.
type Key string

// Derive normalizes a (first, last) name pair into a Key.
//
// Rules:
//   - first and last present: first token of first + last with all
//     whitespace removed, lowercased ("Mary Ann", "Van Dyke" -> "maryvandyke")
//   - only last present: last with whitespace removed, lowercased
//   - last absent: no key; the author cannot be matched
//
// A part is present when it has a non-whitespace character. The same rule
// applies to roster rows and publication authors.
func Derive(first, last string) (Key, bool) {
	lastParts := strings.Fields(last)
	if len(lastParts) == 0 {
		return "", false
	}
	key := strings.ToLower(strings.Join(lastParts, ""))

	if firstParts := strings.Fields(first); len(firstParts) > 0 {
		key = strings.ToLower(firstParts[0]) + key
	}
	return Key(key), true
}

func (k Key) String() string {
	return string(k)
}

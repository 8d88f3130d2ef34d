package reference

// Author is one entry of a publication's author list. First is optional;
// group authors and consortia usually carry only Last.
type Author struct {
	First string `json:"first,omitempty"` // First/given name(s)
	Last  string `json:"last,omitempty"`  // Last/family name, or credited group
}

// FullName formats an author as "First Last", falling back to Last alone
// and to "n/a" when neither is known.
func (a Author) FullName() string {
	switch {
	case a.First != "" && a.Last != "":
		return a.First + " " + a.Last
	case a.Last != "":
		return a.Last
	default:
		return "n/a"
	}
}

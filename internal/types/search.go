package types

// SearchMatch is a single hit from a CV text search. Fragment is the line
// or field value that contained the query; Section and Entry locate it.
type SearchMatch struct {
	Section  string `json:"section"`
	Entry    string `json:"entry,omitempty"`
	Fragment string `json:"fragment"`
}

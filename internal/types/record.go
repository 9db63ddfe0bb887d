// Package types provides type definitions for structured data used throughout the cv-agent system.
package types

// CVRecord is the parsed view of a CV document. It is built once during
// initialization and treated as read-only afterwards; updates replace the
// whole record rather than mutating it in place.
type CVRecord struct {
	Personal   map[string]string `json:"personal"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []string          `json:"skills"`
	RawText    string            `json:"raw_text"`
}

// ExperienceEntry represents a single work history entry.
type ExperienceEntry struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bullets   []string `json:"bullets"`
}

// EducationEntry represents a single education entry.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// EmptyCVRecord returns a well-typed record with no content. It is the
// fallback used when the CV document cannot be parsed: every section is
// present and empty, so readers see valid shapes instead of nulls.
func EmptyCVRecord() *CVRecord {
	return &CVRecord{
		Personal:   map[string]string{},
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
		Skills:     []string{},
		RawText:    "",
	}
}

// IsEmpty reports whether the record carries no parsed content.
func (r *CVRecord) IsEmpty() bool {
	return len(r.Personal) == 0 &&
		len(r.Experience) == 0 &&
		len(r.Education) == 0 &&
		len(r.Skills) == 0 &&
		r.RawText == ""
}

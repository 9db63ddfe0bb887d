package tools

import (
	"sort"
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// Section names attached to search matches.
const (
	SectionPersonal   = "personal"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionRawText    = "raw_text"
)

// Search scans every section of the record for case-insensitive occurrences
// of query and returns the matching fragments in document order: personal
// details, experience, education, skills, then raw text. Matches are
// unranked, and a fragment that appears both in a structured section and in
// the raw text is reported for each.
func Search(record *types.CVRecord, query string) []types.SearchMatch {
	matches := []types.SearchMatch{}
	if record == nil || query == "" {
		return matches
	}

	needle := strings.ToLower(query)
	contains := func(value string) bool {
		return strings.Contains(strings.ToLower(value), needle)
	}

	keys := make([]string, 0, len(record.Personal))
	for key := range record.Personal {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fragment := key + ": " + record.Personal[key]
		if contains(fragment) {
			matches = append(matches, types.SearchMatch{
				Section:  SectionPersonal,
				Entry:    key,
				Fragment: fragment,
			})
		}
	}

	for _, entry := range record.Experience {
		label := joinLabel(entry.Company, entry.Role)
		for _, value := range entryFields(entry.Company, entry.Role, entry.Location, entry.StartDate, entry.EndDate) {
			if contains(value) {
				matches = append(matches, types.SearchMatch{
					Section:  SectionExperience,
					Entry:    label,
					Fragment: value,
				})
			}
		}
		for _, bullet := range entry.Bullets {
			if contains(bullet) {
				matches = append(matches, types.SearchMatch{
					Section:  SectionExperience,
					Entry:    label,
					Fragment: bullet,
				})
			}
		}
	}

	for _, entry := range record.Education {
		label := joinLabel(entry.Institution, entry.Degree)
		for _, value := range entryFields(entry.Institution, entry.Degree, entry.Field, entry.StartDate, entry.EndDate) {
			if contains(value) {
				matches = append(matches, types.SearchMatch{
					Section:  SectionEducation,
					Entry:    label,
					Fragment: value,
				})
			}
		}
	}

	for _, skill := range record.Skills {
		if contains(skill) {
			matches = append(matches, types.SearchMatch{
				Section:  SectionSkills,
				Fragment: skill,
			})
		}
	}

	for _, line := range strings.Split(record.RawText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && contains(line) {
			matches = append(matches, types.SearchMatch{
				Section:  SectionRawText,
				Fragment: line,
			})
		}
	}

	return matches
}

// entryFields filters out empty values so they never produce matches.
func entryFields(values ...string) []string {
	fields := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			fields = append(fields, value)
		}
	}
	return fields
}

func joinLabel(primary, secondary string) string {
	switch {
	case primary != "" && secondary != "":
		return primary + " - " + secondary
	case primary != "":
		return primary
	default:
		return secondary
	}
}

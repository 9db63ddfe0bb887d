package resume

import (
	"regexp"
	"strings"
)

// sectionKind identifies which CV section a heading opens.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionExperience
	sectionEducation
	sectionSkills
	sectionOther
)

// sectionAliases maps normalized heading text to a section kind. Headings
// not listed here open an "other" section whose content only reaches the
// raw text, not the structured record.
var sectionAliases = map[string]sectionKind{
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"work history":            sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"professional experience": sectionExperience,
	"education":               sectionEducation,
	"academic background":     sectionEducation,
	"academics":               sectionEducation,
	"skills":                  sectionSkills,
	"technical skills":        sectionSkills,
	"core skills":             sectionSkills,
	"core competencies":       sectionSkills,
	"technologies":            sectionSkills,
}

// headingText returns the heading text when the line is a section heading:
// a markdown heading, an all-caps line, or a known section name with an
// optional trailing colon. The second return is false for ordinary lines.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	// Markdown heading
	if strings.HasPrefix(trimmed, "#") {
		return strings.TrimSpace(strings.TrimLeft(trimmed, "#")), true
	}

	// Known section name, with or without a trailing colon
	candidate := normalizeHeading(trimmed)
	if _, ok := sectionAliases[candidate]; ok {
		return strings.TrimSuffix(trimmed, ":"), true
	}

	// Short all-caps line (e.g. "WORK EXPERIENCE")
	if len(trimmed) <= 40 && isAllCaps(trimmed) {
		return strings.TrimSuffix(trimmed, ":"), true
	}

	return "", false
}

// classifySection maps heading text to a section kind.
func classifySection(heading string) sectionKind {
	if kind, ok := sectionAliases[normalizeHeading(heading)]; ok {
		return kind
	}
	return sectionOther
}

func normalizeHeading(heading string) string {
	heading = strings.TrimSuffix(strings.TrimSpace(heading), ":")
	return strings.ToLower(heading)
}

// isAllCaps reports whether a line contains letters and all of them are
// upper case. Digits and punctuation are ignored.
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

var dateRangeRe = regexp.MustCompile(`(?i)([A-Za-z]{3,9}\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4})\s*(?:[–—-]|to)\s*([A-Za-z]{3,9}\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4}|present|current|now)`)

// extractDateRange pulls a "May 2019 – Present" style range out of a line.
// Returns the start, end, and the line with the range (and any surrounding
// parentheses) removed.
func extractDateRange(line string) (start, end, remainder string) {
	loc := dateRangeRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", "", line
	}

	start = strings.TrimSpace(line[loc[2]:loc[3]])
	end = strings.TrimSpace(line[loc[4]:loc[5]])

	from, to := loc[0], loc[1]
	// Swallow parentheses that wrapped only the date range
	if from > 0 && line[from-1] == '(' && to < len(line) && line[to] == ')' {
		from--
		to++
	}

	remainder = strings.TrimSpace(line[:from] + " " + line[to:])
	remainder = strings.Trim(remainder, " ,|–—-")
	return start, end, strings.TrimSpace(remainder)
}

// entrySeparators are tried in order when splitting an entry header line
// into its two halves ("Company — Role", "Institution, Degree").
var entrySeparators = []string{" — ", " – ", " | ", " - ", ", "}

// splitEntryHeader splits an entry header line into primary and secondary
// parts. "Role at Company" is recognized and returned as (Company, Role);
// every other separator convention reads left-to-right as (primary,
// secondary), so "Company — Role" yields ("Company", "Role").
func splitEntryHeader(line string) (primary, secondary string) {
	line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))

	if idx := strings.Index(line, " at "); idx > 0 {
		return strings.TrimSpace(line[idx+4:]), strings.TrimSpace(line[:idx])
	}

	for _, sep := range entrySeparators {
		if idx := strings.Index(line, sep); idx > 0 {
			return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(sep):])
		}
	}

	return line, ""
}

// splitDegreeField splits "B.S. in Mathematics" style lines into degree
// and field of study.
func splitDegreeField(line string) (degree, field string) {
	line = strings.TrimSpace(line)
	if idx := strings.Index(line, " in "); idx > 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+4:])
	}
	return line, ""
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?[\d][\d\s().\-]{6,}[\d]`)
	urlRe   = regexp.MustCompile(`https?://[^\s)]+`)
)

// personalLabels are the "Label: value" keys recognized in the personal
// block at the top of a document.
var personalLabels = []string{
	"email", "phone", "location", "address", "website", "linkedin", "github", "title",
}

// parseLabeledLine matches "Email: ada@example.com" style lines. The key
// is returned lowercased; ok is false when the line is not a known label.
func parseLabeledLine(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	for _, label := range personalLabels {
		if key == label {
			return key, strings.TrimSpace(line[idx+1:]), true
		}
	}
	return "", "", false
}

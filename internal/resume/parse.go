// Package resume builds structured CV records from document text.
// Parsing is deterministic line-based scanning: no network, no model
// calls, so the same document always yields the same record.
package resume

import (
	"strings"

	"github.com/jonathan/cv-agent/internal/types"
)

// Parse builds a CVRecord from CV document text (markdown or plain text;
// HTML should be reduced to text first). The returned record is complete:
// sections that the document lacks are present and empty.
func Parse(content string) (*types.CVRecord, error) {
	cleaned := CleanText(content)
	if cleaned == "" {
		return nil, &ParseError{Message: "document is empty"}
	}

	p := &parser{record: types.EmptyCVRecord()}
	p.record.RawText = cleaned

	for _, line := range strings.Split(cleaned, "\n") {
		p.consume(line)
	}
	p.flush()

	return p.record, nil
}

// parser scans cleaned document lines top to bottom. Lines before the
// first recognized section heading form the personal block; after that,
// lines belong to the section most recently opened.
type parser struct {
	record  *types.CVRecord
	section sectionKind

	sawName     bool
	entry       *types.ExperienceEntry
	edu         *types.EducationEntry
	afterHeader bool // previous line started the current entry
	afterBlank  bool // previous line was blank
	seenSkills  map[string]bool
}

func (p *parser) consume(line string) {
	if strings.TrimSpace(line) == "" {
		p.afterBlank = true
		return
	}
	defer func() { p.afterBlank = false }()

	if heading, ok := headingText(line); ok {
		if p.openSection(heading) {
			return
		}
		switch {
		case p.section == sectionNone && !p.sawName:
			// The first heading of the document is the candidate's name
			p.record.Personal["name"] = heading
			p.sawName = true
			return
		case p.section == sectionNone:
			// An unrecognized section heading ends the personal block
			p.section = sectionOther
			return
		case p.section == sectionExperience || p.section == sectionEducation:
			// Entry header ("### Company — Role"), handled below
			line = heading
		default:
			// Subcategory label inside skills or an unrecognized section
			return
		}
	}

	switch p.section {
	case sectionNone:
		p.consumePersonal(line)
	case sectionExperience:
		p.consumeExperience(line)
	case sectionEducation:
		p.consumeEducation(line)
	case sectionSkills:
		p.consumeSkills(line)
	default:
		// Unrecognized sections (summary, projects, ...) reach callers
		// only through the raw text.
	}
}

// openSection switches to a recognized section and reports whether the
// heading was consumed.
func (p *parser) openSection(heading string) bool {
	kind := classifySection(heading)
	if kind == sectionOther {
		return false
	}
	p.flush()
	p.section = kind
	p.sawName = true // anything after a section heading is not a name
	return true
}

// --- personal block ---

func (p *parser) consumePersonal(line string) {
	if !p.sawName {
		p.record.Personal["name"] = strings.TrimSpace(line)
		p.sawName = true
		return
	}

	if key, value, ok := parseLabeledLine(line); ok {
		p.setPersonal(key, value)
		return
	}

	// Contact lines often pack several values: "ada@example.com | +44 20 ..."
	matched := false
	for _, token := range splitContactLine(line) {
		if email := emailRe.FindString(token); email != "" {
			p.setPersonal("email", email)
			matched = true
			continue
		}
		if link := urlRe.FindString(token); link != "" {
			p.setPersonal("website", link)
			matched = true
			continue
		}
		if phone := phoneRe.FindString(token); phone != "" && mostlyDigits(token) {
			p.setPersonal("phone", strings.TrimSpace(phone))
			matched = true
		}
	}
	if matched {
		return
	}

	// A short plain line right under the name reads as a title
	if _, ok := p.record.Personal["title"]; !ok && len(line) <= 80 {
		p.setPersonal("title", strings.TrimSpace(line))
	}
}

// setPersonal stores a personal field, first writer wins.
func (p *parser) setPersonal(key, value string) {
	if value == "" {
		return
	}
	if _, exists := p.record.Personal[key]; !exists {
		p.record.Personal[key] = value
	}
}

func splitContactLine(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == '|' || r == '·' || r == '•' || r == ','
	})
}

func mostlyDigits(token string) bool {
	digits, letters := 0, 0
	for _, r := range token {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letters++
		}
	}
	return digits > letters
}

// --- experience section ---

func (p *parser) consumeExperience(line string) {
	if isBulletLine(line) {
		p.ensureEntry()
		p.entry.Bullets = append(p.entry.Bullets, bulletText(line))
		p.afterHeader = false
		return
	}

	start, end, rest := extractDateRange(line)

	// Date-only line: attach to the current entry
	if start != "" && rest == "" {
		p.ensureEntry()
		if p.entry.StartDate == "" {
			p.entry.StartDate, p.entry.EndDate = start, end
		}
		return
	}

	// Second header line supplies the role: "Company" / "Senior Engineer"
	if p.entry != nil && p.afterHeader && !p.afterBlank && start == "" && p.entry.Role == "" {
		p.entry.Role = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		p.afterHeader = false
		return
	}

	// Anything else starts a new entry
	p.flushEntry()
	header := line
	if rest != "" {
		header = rest
	}
	company, role := splitEntryHeader(header)
	p.entry = &types.ExperienceEntry{
		Company:   company,
		Role:      role,
		StartDate: start,
		EndDate:   end,
		Bullets:   []string{},
	}
	p.afterHeader = true
}

func (p *parser) ensureEntry() {
	if p.entry == nil {
		p.entry = &types.ExperienceEntry{Bullets: []string{}}
	}
}

func (p *parser) flushEntry() {
	if p.entry == nil {
		return
	}
	if p.entry.Company != "" || p.entry.Role != "" || len(p.entry.Bullets) > 0 {
		p.record.Experience = append(p.record.Experience, *p.entry)
	}
	p.entry = nil
	p.afterHeader = false
}

// --- education section ---

func (p *parser) consumeEducation(line string) {
	if isBulletLine(line) {
		line = bulletText(line)
	}

	start, end, rest := extractDateRange(line)

	if start != "" && rest == "" {
		if p.edu != nil && p.edu.StartDate == "" {
			p.edu.StartDate, p.edu.EndDate = start, end
		}
		return
	}

	// Second header line supplies the degree: "MIT" / "B.S. in Mathematics"
	if p.edu != nil && p.afterHeader && !p.afterBlank && p.edu.Degree == "" {
		header := line
		if rest != "" {
			header = rest
		}
		p.edu.Degree, p.edu.Field = splitDegreeField(header)
		if start != "" && p.edu.StartDate == "" {
			p.edu.StartDate, p.edu.EndDate = start, end
		}
		p.afterHeader = false
		return
	}

	p.flushEdu()
	header := line
	if rest != "" {
		header = rest
	}
	institution, detail := splitEntryHeader(header)
	degree, field := splitDegreeField(detail)
	p.edu = &types.EducationEntry{
		Institution: institution,
		Degree:      degree,
		Field:       field,
		StartDate:   start,
		EndDate:     end,
	}
	p.afterHeader = true
}

func (p *parser) flushEdu() {
	if p.edu == nil {
		return
	}
	if p.edu.Institution != "" || p.edu.Degree != "" {
		p.record.Education = append(p.record.Education, *p.edu)
	}
	p.edu = nil
	p.afterHeader = false
}

// --- skills section ---

func (p *parser) consumeSkills(line string) {
	if isBulletLine(line) {
		line = bulletText(line)
	}
	// "Languages: Go, Rust" keeps only the list part
	if idx := strings.Index(line, ":"); idx > 0 && idx < 30 {
		line = line[idx+1:]
	}

	for _, skill := range strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '·' || r == '•'
	}) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if p.seenSkills == nil {
			p.seenSkills = make(map[string]bool)
		}
		key := strings.ToLower(skill)
		if p.seenSkills[key] {
			continue
		}
		p.seenSkills[key] = true
		p.record.Skills = append(p.record.Skills, skill)
	}
}

// flush closes any open entries. Called on section switches and at EOF.
func (p *parser) flush() {
	p.flushEntry()
	p.flushEdu()
}

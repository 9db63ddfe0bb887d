// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-agent/internal/resume"
	"github.com/jonathan/cv-agent/internal/tools"
	"github.com/jonathan/cv-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintToolCatalog outputs the registered tool catalog with read-only
// markers.
func (p *Printer) PrintToolCatalog(defs []tools.Definition) {
	if len(defs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Registered tools: %d\n\n", len(defs)))

	for i, def := range defs {
		name := def.Name
		if def.ReadOnly {
			name += " (read-only)"
		}
		sb.WriteString(fmt.Sprintf("• %s\n", name))

		desc := def.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", desc))
		if i < len(defs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TOOL CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecordSummary outputs a human-readable summary of a parsed CV
// record and its load metadata.
func (p *Printer) PrintRecordSummary(record *types.CVRecord, meta *resume.Metadata) {
	if record == nil {
		return
	}

	var sb strings.Builder

	if name := record.Personal["name"]; name != "" {
		sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	}
	if email := record.Personal["email"]; email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", email))
	}
	if meta != nil && meta.Source != "" {
		source := meta.Source
		if len(source) > 45 {
			source = "..." + source[len(source)-42:]
		}
		sb.WriteString(fmt.Sprintf("Source:   %s\n", source))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Experience entries: %d\n", len(record.Experience)))
	sb.WriteString(fmt.Sprintf("Education entries:  %d\n", len(record.Education)))
	sb.WriteString(fmt.Sprintf("Skills:             %d\n", len(record.Skills)))
	sb.WriteString(fmt.Sprintf("Raw text:           %d chars\n", len(record.RawText)))

	if len(record.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(record.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", record.Skills[i]))
		}
		if len(record.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Skills)-maxItemsToShow))
		}
	}

	p.printBox("PARSED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSearchMatches outputs search hits with their section and entry
// context.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSearchMatches(query string, matches []types.SearchMatch) {
	if len(matches) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("NO MATCHES FOR %q", query))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d matches for %q:\n\n", len(matches), query))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		match := matches[i]
		fragment := match.Fragment
		if len(fragment) > 45 {
			fragment = fragment[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("• [%s] %s\n", match.Section, fragment))
		if match.Entry != "" {
			entry := match.Entry
			if len(entry) > 45 {
				entry = entry[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  in: %s\n", entry))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(matches)-maxItemsToShow))
	}

	p.printBox("SEARCH MATCHES", sb.String())
}

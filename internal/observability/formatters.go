// Package observability provides structured logging and formatted output
// for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/unemployment-navigator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the CLI
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

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line into chunks no wider than width, breaking at spaces and
// keeping leading indentation on continuation lines.
func wrap(line string, width int) []string {
	if len([]rune(line)) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	words := strings.Fields(line)

	var out []string
	current := indent
	for _, w := range words {
		candidate := current + w
		if current != indent {
			candidate = current + " " + w
		}
		if len([]rune(candidate)) > width && current != indent {
			out = append(out, current)
			current = indent + "  " + w
			continue
		}
		current = candidate
	}
	return append(out, current)
}

// PrintProfile outputs the answers collected during an interview.
func (p *Printer) PrintProfile(profile types.UserProfile) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Status:    %s\n", profile.EmploymentStatus))
	if profile.Timeline != "" {
		sb.WriteString(fmt.Sprintf("Timeline:  %s\n", profile.Timeline))
	}
	if profile.SeparationReason != "" {
		sb.WriteString(fmt.Sprintf("Reason:    %s\n", profile.SeparationReason))
	}
	keys := make([]string, 0, len(profile.AdditionalInfo))
	for k := range profile.AdditionalInfo {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", k, profile.AdditionalInfo[k]))
	}
	if profile.EligibilityCategory != "" {
		sb.WriteString(fmt.Sprintf("Category:  %s\n", profile.EligibilityCategory))
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintActionPlan outputs the plan grouped by priority band.
func (p *Printer) PrintActionPlan(plan *types.ActionPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(plan.Description + "\n")
	completed, total := plan.Progress()
	sb.WriteString(fmt.Sprintf("\nProgress: %d/%d complete\n", completed, total))

	headings := []string{"IMMEDIATE", "SHORT TERM", "ONGOING"}
	for i, band := range plan.Bands() {
		if len(band) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", headings[i]))
		for _, item := range band {
			mark := " "
			if item.Completed {
				mark = "x"
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s", mark, item.Title))
			if item.TimeEstimate != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", item.TimeEstimate))
			}
			sb.WriteString("\n")
			for _, r := range item.Resources {
				sb.WriteString(fmt.Sprintf("      → %s %s\n", r.Name, r.URL))
			}
		}
	}

	if len(plan.HiddenResources) > 0 {
		sb.WriteString("\nADDITIONAL RESOURCES\n")
		for _, r := range plan.HiddenResources {
			sb.WriteString(fmt.Sprintf("  • %s", r.Name))
			if r.Phone != "" {
				sb.WriteString(fmt.Sprintf(" %s", r.Phone))
			}
			sb.WriteString(fmt.Sprintf("\n      %s\n", r.URL))
		}
	}

	p.printBox(strings.ToUpper(plan.Title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResources outputs a list of resources, truncated after
// maxItemsToShow entries unless all is set.
func (p *Printer) PrintResources(title string, resources []types.ResourceLink, all bool) {
	if len(resources) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total resources: %d\n\n", len(resources)))

	count := len(resources)
	if !all {
		count = min(count, maxItemsToShow)
	}
	for i := 0; i < count; i++ {
		r := resources[i]
		sb.WriteString(fmt.Sprintf("%-24s %s\n", r.ID, r.Category))
		sb.WriteString(fmt.Sprintf("    %s\n", r.URL))
	}
	if count < len(resources) {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(resources)-count))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs a completion banner with key/value lines.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSummary(title string, lines ...string) {
	border := strings.Repeat("═", boxWidth-2)
	fmt.Fprintf(p.out, "╔%s╗\n", border)
	fmt.Fprintf(p.out, "║ %-*s ║\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "╠%s╣\n", border)
	for _, line := range lines {
		fmt.Fprintf(p.out, "║ %-*s ║\n", boxWidth-4, line)
	}
	fmt.Fprintf(p.out, "╚%s╝\n", border)
}

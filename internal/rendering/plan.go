package rendering

import (
	"embed"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/unemployment-navigator/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Format selects an output format.
type Format string

// Supported formats.
const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Footer is appended to every rendered plan.
const Footer = "Need more help? Contact a MassHire Career Center at (617) 626-5300 or visit mass.gov/locations/masshire-career-centers"

// BandHeadings are the display headings for each priority band.
var BandHeadings = map[types.Priority]string{
	types.PriorityImmediate: "Immediate Actions (24-48 hours)",
	types.PriorityShortTerm: "Short-term Actions (This week)",
	types.PriorityOngoing:   "Ongoing Actions (2-4 weeks)",
}

var bandSummaries = map[types.Priority]string{
	types.PriorityImmediate: "These are the most urgent steps you should take right away.",
	types.PriorityShortTerm: "Complete these tasks within the next week to set yourself up for success.",
	types.PriorityOngoing:   "These are ongoing activities to maintain your benefits and find new employment.",
}

// TemplateData is the data passed to the plan templates
type TemplateData struct {
	Title       string
	Description string
	Completed   int
	Total       int
	Bands       []BandSection
	Hidden      []types.ResourceLink
	Footer      string
}

// BandSection is one priority band
type BandSection struct {
	Heading string
	Summary string
	Items   []types.ActionItem
}

var (
	parsed   = make(map[Format]*template.Template)
	parsedMu sync.Mutex
)

// RenderMarkdown renders plan as a Markdown document.
func RenderMarkdown(plan *types.ActionPlan) (string, error) {
	return Render(plan, FormatMarkdown)
}

// RenderText renders plan as plain text.
func RenderText(plan *types.ActionPlan) (string, error) {
	return Render(plan, FormatText)
}

// Render renders plan in the given format.
func Render(plan *types.ActionPlan, format Format) (string, error) {
	if plan == nil {
		return "", &RenderError{Format: format, Message: "no action plan"}
	}

	tmpl, err := parseTemplate(format)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, buildTemplateData(plan)); err != nil {
		return "", &TemplateError{Format: format, Message: "execute failed", Cause: err}
	}

	return result.String(), nil
}

func templateName(format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return "plan.md.tmpl", nil
	case FormatText:
		return "plan.txt.tmpl", nil
	default:
		return "", &RenderError{Format: format, Message: "unsupported format"}
	}
}

// parseTemplate loads and caches the template for a format
func parseTemplate(format Format) (*template.Template, error) {
	name, err := templateName(format)
	if err != nil {
		return nil, err
	}

	parsedMu.Lock()
	defer parsedMu.Unlock()
	if tmpl, ok := parsed[format]; ok {
		return tmpl, nil
	}

	content, err := templateFiles.ReadFile("templates/" + name)
	if err != nil {
		return nil, &TemplateError{Format: format, Message: "missing " + name, Cause: err}
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"md":        EscapeMarkdown,
		"underline": func(s string) string { return strings.Repeat("=", len([]rune(s))) },
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Format: format, Message: "parse failed", Cause: err}
	}

	parsed[format] = tmpl
	return tmpl, nil
}

func buildTemplateData(plan *types.ActionPlan) *TemplateData {
	completed, total := plan.Progress()
	data := &TemplateData{
		Title:       plan.Title,
		Description: plan.Description,
		Completed:   completed,
		Total:       total,
		Hidden:      plan.HiddenResources,
		Footer:      Footer,
	}
	priorities := []types.Priority{types.PriorityImmediate, types.PriorityShortTerm, types.PriorityOngoing}
	for i, items := range plan.Bands() {
		p := priorities[i]
		data.Bands = append(data.Bands, BandSection{
			Heading: BandHeadings[p],
			Summary: bandSummaries[p],
			Items:   items,
		})
	}
	return data
}

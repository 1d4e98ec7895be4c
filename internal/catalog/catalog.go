// Package catalog loads the read-only question, action plan template and
// resource catalogs. The default catalogs are embedded at compile time and
// validated against the JSON Schemas before use.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/jonathan/unemployment-navigator/internal/schemas"
	"github.com/jonathan/unemployment-navigator/internal/types"
	schemafiles "github.com/jonathan/unemployment-navigator/schemas"
)

// Catalog file names, relative to the catalog directory.
const (
	QuestionsFile   = "questions.json"
	ActionPlansFile = "action_plans.json"
	ResourcesFile   = "resources.json"
)

//go:embed data/*.json
var embedded embed.FS

// Catalog holds the three lookup tables. It is never mutated after Load and
// is safe to share between sessions.
type Catalog struct {
	questions map[string]types.Question
	templates map[types.Category]types.PlanTemplate
	resources map[string]types.ResourceLink
}

type questionsDoc struct {
	Questions map[string]types.Question `json:"questions"`
}

type actionPlansDoc struct {
	ActionPlans map[types.Category]types.PlanTemplate `json:"action_plans"`
}

type resourcesDoc struct {
	Resources map[string]types.ResourceLink `json:"resources"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalogs, loading them on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = Load(sub)
	})
	return defaultCat, defaultErr
}

// LoadDir loads catalogs from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	if dir == "" {
		return nil, &Error{Message: "catalog directory is empty"}
	}
	return Load(os.DirFS(dir))
}

// Load reads and validates the three catalog documents from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var qd questionsDoc
	if err := readDocument(fsys, QuestionsFile, schemafiles.Questions, &qd); err != nil {
		return nil, err
	}
	var ad actionPlansDoc
	if err := readDocument(fsys, ActionPlansFile, schemafiles.ActionPlans, &ad); err != nil {
		return nil, err
	}
	var rd resourcesDoc
	if err := readDocument(fsys, ResourcesFile, schemafiles.Resources, &rd); err != nil {
		return nil, err
	}

	c := New(qd.Questions, ad.ActionPlans, rd.Resources)
	if err := c.checkKeys(); err != nil {
		return nil, err
	}
	return c, nil
}

// New builds a catalog from in-memory tables. It copies the maps so later
// changes by the caller do not leak in.
func New(questions map[string]types.Question, templates map[types.Category]types.PlanTemplate, resources map[string]types.ResourceLink) *Catalog {
	c := &Catalog{
		questions: make(map[string]types.Question, len(questions)),
		templates: make(map[types.Category]types.PlanTemplate, len(templates)),
		resources: make(map[string]types.ResourceLink, len(resources)),
	}
	for k, v := range questions {
		c.questions[k] = v
	}
	for k, v := range templates {
		c.templates[k] = v
	}
	for k, v := range resources {
		c.resources[k] = v
	}
	return c
}

func readDocument(fsys fs.FS, name, schemaName string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return &Error{Message: fmt.Sprintf("failed to read %s", name), Cause: err}
	}
	if err := schemas.ValidateDocument(schemaName, data); err != nil {
		return &Error{Message: fmt.Sprintf("%s does not match %s", name, schemaName), Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Message: fmt.Sprintf("failed to parse %s", name), Cause: err}
	}
	return nil
}

// checkKeys verifies that every entry is stored under its own identifier and
// that action item IDs are unique within a template.
func (c *Catalog) checkKeys() error {
	var problems []string
	for key, q := range c.questions {
		if q.ID != key {
			problems = append(problems, fmt.Sprintf("question %q has id %q", key, q.ID))
		}
	}
	for key, r := range c.resources {
		if r.ID != key {
			problems = append(problems, fmt.Sprintf("resource %q has id %q", key, r.ID))
		}
	}
	for key, t := range c.templates {
		seen := make(map[string]bool)
		for _, band := range [][]types.ActionItemTemplate{t.ImmediateActions, t.ShortTermActions, t.OngoingActions} {
			for _, item := range band {
				if seen[item.ID] {
					problems = append(problems, fmt.Sprintf("template %q repeats action item %q", key, item.ID))
				}
				seen[item.ID] = true
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return &RequirementError{Problems: problems}
	}
	return nil
}

// Question returns a copy of the question with the given ID.
func (c *Catalog) Question(id string) (*types.Question, bool) {
	q, ok := c.questions[id]
	if !ok {
		return nil, false
	}
	q.Options = append([]types.Option(nil), q.Options...)
	return &q, true
}

// Template returns the template for a category. Slices in the returned value
// are shared with the catalog and must be copied before modification.
func (c *Catalog) Template(category types.Category) (types.PlanTemplate, bool) {
	t, ok := c.templates[category]
	return t, ok
}

// Resource returns the resource with the given ID.
func (c *Catalog) Resource(id string) (types.ResourceLink, bool) {
	r, ok := c.resources[id]
	return r, ok
}

// QuestionIDs returns all question IDs in sorted order.
func (c *Catalog) QuestionIDs() []string {
	return sortedKeys(c.questions)
}

// ResourceIDs returns all resource IDs in sorted order.
func (c *Catalog) ResourceIDs() []string {
	return sortedKeys(c.resources)
}

// Categories returns all template categories in sorted order.
func (c *Catalog) Categories() []types.Category {
	out := make([]types.Category, 0, len(c.templates))
	for k := range c.templates {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resources returns every resource sorted by ID.
func (c *Catalog) Resources() []types.ResourceLink {
	out := make([]types.ResourceLink, 0, len(c.resources))
	for _, id := range c.ResourceIDs() {
		out = append(out, c.resources[id])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

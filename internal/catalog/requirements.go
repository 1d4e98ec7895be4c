package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/unemployment-navigator/internal/types"
)

// Requirements names the entries other components look up at runtime. A
// catalog that lacks any of them is a configuration defect and is rejected at
// startup rather than discovered mid-interview.
type Requirements struct {
	Questions []string
	Templates []types.Category
	Resources []string
}

// Merge combines requirement sets.
func (r Requirements) Merge(other Requirements) Requirements {
	return Requirements{
		Questions: append(append([]string(nil), r.Questions...), other.Questions...),
		Templates: append(append([]types.Category(nil), r.Templates...), other.Templates...),
		Resources: append(append([]string(nil), r.Resources...), other.Resources...),
	}
}

// Require verifies that every required entry is present.
func (c *Catalog) Require(req Requirements) error {
	var problems []string
	for _, id := range req.Questions {
		if _, ok := c.questions[id]; !ok {
			problems = append(problems, fmt.Sprintf("missing question %q", id))
		}
	}
	for _, cat := range req.Templates {
		if _, ok := c.templates[cat]; !ok {
			problems = append(problems, fmt.Sprintf("missing action plan template %q", cat))
		}
	}
	for _, id := range req.Resources {
		if _, ok := c.resources[id]; !ok {
			problems = append(problems, fmt.Sprintf("missing resource %q", id))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return &RequirementError{Problems: problems}
	}
	return nil
}

// Lint reports gaps that are tolerated at runtime: template resource
// references that will be dropped during hydration and categories without a
// template (they fall back to the default plan).
func (c *Catalog) Lint(categories []types.Category) []string {
	var warnings []string
	for _, cat := range c.Categories() {
		t := c.templates[cat]
		refs := append([]string(nil), t.HiddenResources...)
		for _, band := range [][]types.ActionItemTemplate{t.ImmediateActions, t.ShortTermActions, t.OngoingActions} {
			for _, item := range band {
				refs = append(refs, item.Resources...)
			}
		}
		for _, id := range refs {
			if _, ok := c.resources[id]; !ok {
				warnings = append(warnings, fmt.Sprintf("template %q references unknown resource %q", cat, id))
			}
		}
	}
	for _, cat := range categories {
		if _, ok := c.templates[cat]; !ok {
			warnings = append(warnings, fmt.Sprintf("category %q has no template and will use the fallback plan", cat))
		}
	}
	return warnings
}

// Error represents a failure to load a catalog document.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// RequirementError lists catalog integrity problems.
type RequirementError struct {
	Problems []string
}

func (e *RequirementError) Error() string {
	return "catalog check failed: " + strings.Join(e.Problems, "; ")
}

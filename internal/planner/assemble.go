// Package planner assembles personalized action plans from the template and
// resource catalogs.
package planner

import (
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/unemployment-navigator/internal/types"
)

// FallbackCategory is used when the classified category has no template.
const FallbackCategory = types.CategoryLayoffEligible

// Text used when the fallback template stands in for a missing one.
const (
	FallbackTitle       = "General Unemployment Resources"
	FallbackDescription = "Here are some general resources that may be helpful for your situation."
)

// ErrNoTemplate is returned when neither the requested category nor the
// fallback category has a template.
var ErrNoTemplate = errors.New("no action plan template available")

// Catalog is the read-only lookup the engine needs.
type Catalog interface {
	Template(category types.Category) (types.PlanTemplate, bool)
	Resource(id string) (types.ResourceLink, bool)
}

// Engine builds action plans. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	catalog      Catalog
	bonus        []ResourceRule
	descriptions []DescriptionRule
	newID        func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the plan ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithRules replaces the bonus and description rule lists.
func WithRules(bonus []ResourceRule, descriptions []DescriptionRule) Option {
	return func(e *Engine) {
		e.bonus = bonus
		e.descriptions = descriptions
	}
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(c Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:      c,
		bonus:        BonusRules,
		descriptions: DescriptionRules,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assemble produces the plan for category, personalized for profile. The
// returned plan shares no storage with the catalog.
func (e *Engine) Assemble(category types.Category, profile types.UserProfile) (*types.ActionPlan, error) {
	tmpl, ok := e.catalog.Template(category)
	fallback := false
	if !ok {
		tmpl, ok = e.catalog.Template(FallbackCategory)
		if !ok {
			return nil, ErrNoTemplate
		}
		fallback = true
	}

	plan := &types.ActionPlan{
		ID:                  e.newID(),
		Title:               tmpl.Title,
		Description:         tmpl.Description,
		EligibilityCategory: tmpl.EligibilityCategory,
		ImmediateActions:    e.hydrateItems(tmpl.ImmediateActions),
		ShortTermActions:    e.hydrateItems(tmpl.ShortTermActions),
		OngoingActions:      e.hydrateItems(tmpl.OngoingActions),
		HiddenResources:     e.hydrateResources(tmpl.HiddenResources),
	}
	if fallback {
		plan.Title = FallbackTitle
		plan.Description = FallbackDescription
		plan.EligibilityCategory = category
	}

	for _, rule := range e.bonus {
		if rule.When(profile) {
			plan.HiddenResources = append(plan.HiddenResources, e.hydrateResources(rule.Resources)...)
		}
	}
	for _, rule := range e.descriptions {
		if rule.When(profile) {
			plan.Description += rule.Suffix
		}
	}
	return plan, nil
}

func (e *Engine) hydrateItems(items []types.ActionItemTemplate) []types.ActionItem {
	out := make([]types.ActionItem, 0, len(items))
	for _, item := range items {
		out = append(out, types.ActionItem{
			ID:           item.ID,
			Title:        item.Title,
			Description:  item.Description,
			Priority:     item.Priority,
			TimeEstimate: item.TimeEstimate,
			Resources:    e.hydrateResources(item.Resources),
			Completed:    false,
		})
	}
	return out
}

// hydrateResources resolves resource IDs, dropping any the catalog lacks.
func (e *Engine) hydrateResources(ids []string) []types.ResourceLink {
	out := make([]types.ResourceLink, 0, len(ids))
	for _, id := range ids {
		if r, ok := e.catalog.Resource(id); ok {
			out = append(out, r)
		}
	}
	return out
}

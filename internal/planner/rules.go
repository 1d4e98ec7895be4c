package planner

import (
	"strings"

	"github.com/jonathan/unemployment-navigator/internal/catalog"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// Predicate reports whether a rule applies to a profile.
type Predicate func(types.UserProfile) bool

// ResourceRule adds extra resources when its predicate holds.
type ResourceRule struct {
	Name      string
	When      Predicate
	Resources []string
}

// DescriptionRule appends a sentence to the plan description when its
// predicate holds.
type DescriptionRule struct {
	Name   string
	When   Predicate
	Suffix string
}

func timelineIn(values ...types.Timeline) Predicate {
	return func(p types.UserProfile) bool {
		for _, v := range values {
			if p.Timeline == v {
				return true
			}
		}
		return false
	}
}

func reasonIs(reason types.SeparationReason) Predicate {
	return func(p types.UserProfile) bool {
		return p.SeparationReason == reason
	}
}

// Truthy reports whether a free-form flag value means yes. Empty strings and
// "false", "0" and "no" (any case) are false.
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "no":
		return false
	default:
		return true
	}
}

// BonusRules are evaluated in order; every matching rule contributes.
var BonusRules = []ResourceRule{
	{
		Name:      "longer_unemployment",
		When:      timelineIn(types.TimelineMonths, types.TimelineLongTerm),
		Resources: []string{"snap_benefits", "fuel_assistance"},
	},
	{
		Name:      "recent_unemployment",
		When:      timelineIn(types.TimelineRecent, types.TimelineWeeks),
		Resources: []string{"healthcare_coverage"},
	},
	{
		Name:      "health_separation",
		When:      reasonIs(types.ReasonHealth),
		Resources: []string{"disability_services"},
	},
	{
		Name:      "fired",
		When:      reasonIs(types.ReasonFired),
		Resources: []string{"legal_aid"},
	},
}

// DescriptionRules are evaluated in order; every matching rule appends its
// suffix.
var DescriptionRules = []DescriptionRule{
	{
		Name:   "recent",
		When:   timelineIn(types.TimelineRecent),
		Suffix: " Since your job loss is recent, acting quickly will help you access benefits sooner.",
	},
	{
		Name:   "long_term",
		When:   timelineIn(types.TimelineLongTerm),
		Suffix: " Even though some time has passed, there are still resources and programs available to help you.",
	},
	{
		Name: "mass_layoff",
		When: func(p types.UserProfile) bool {
			return p.SeparationReason == types.ReasonLayoff && Truthy(p.AdditionalInfo[types.InfoMassLayoff])
		},
		Suffix: " Since you were part of a mass layoff, you may be eligible for additional services through the Worker Adjustment and Retraining Notification (WARN) program.",
	},
}

// Requirements lists the catalog entries the planner depends on.
func Requirements() catalog.Requirements {
	var resources []string
	for _, rule := range BonusRules {
		resources = append(resources, rule.Resources...)
	}
	return catalog.Requirements{
		Templates: []types.Category{FallbackCategory},
		Resources: resources,
	}
}

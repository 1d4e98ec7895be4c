package planner

import (
	"strings"
	"testing"

	"github.com/jonathan/unemployment-navigator/internal/catalog"
	"github.com/jonathan/unemployment-navigator/internal/eligibility"
	"github.com/jonathan/unemployment-navigator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resourceIDs(links []types.ResourceLink) []string {
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}
	return ids
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		nil,
		map[types.Category]types.PlanTemplate{
			types.CategoryLayoffEligible: {
				ID:                  "layoff_plan",
				Title:               "Layoff Plan",
				Description:         "You were laid off.",
				EligibilityCategory: types.CategoryLayoffEligible,
				ImmediateActions: []types.ActionItemTemplate{
					{ID: "file_claim", Title: "File", Priority: types.PriorityImmediate, Resources: []string{"dua_online", "does_not_exist"}},
				},
				ShortTermActions: []types.ActionItemTemplate{
					{ID: "register", Title: "Register", Priority: types.PriorityShortTerm, Resources: []string{"masshire"}},
				},
				OngoingActions: []types.ActionItemTemplate{
					{ID: "weekly", Title: "Weekly", Priority: types.PriorityOngoing},
				},
				HiddenResources: []string{"mass_211"},
			},
			types.CategoryHealthDisability: {
				ID:                  "health_plan",
				Title:               "Health Plan",
				Description:         "Health comes first.",
				EligibilityCategory: types.CategoryHealthDisability,
				ImmediateActions: []types.ActionItemTemplate{
					{ID: "pfml", Title: "PFML", Priority: types.PriorityImmediate, Resources: []string{"pfml"}},
				},
			},
		},
		map[string]types.ResourceLink{
			"dua_online":          {ID: "dua_online", Name: "DUA Online"},
			"masshire":            {ID: "masshire", Name: "MassHire"},
			"mass_211":            {ID: "mass_211", Name: "Mass 211"},
			"pfml":                {ID: "pfml", Name: "PFML"},
			"snap_benefits":       {ID: "snap_benefits", Name: "SNAP"},
			"fuel_assistance":     {ID: "fuel_assistance", Name: "Fuel"},
			"healthcare_coverage": {ID: "healthcare_coverage", Name: "Health Connector"},
			"disability_services": {ID: "disability_services", Name: "Disability"},
			"legal_aid":           {ID: "legal_aid", Name: "Legal Aid"},
		},
	)
}

func fixedID() Option {
	return WithIDGenerator(func() string { return "plan-id" })
}

func TestAssemble_Hydration(t *testing.T) {
	e := NewEngine(testCatalog(), fixedID())

	plan, err := e.Assemble(types.CategoryLayoffEligible, types.NewUserProfile())
	require.NoError(t, err)

	assert.Equal(t, "plan-id", plan.ID)
	assert.Equal(t, "Layoff Plan", plan.Title)
	assert.Equal(t, "You were laid off.", plan.Description)
	assert.Equal(t, types.CategoryLayoffEligible, plan.EligibilityCategory)

	require.Len(t, plan.ImmediateActions, 1)
	assert.Equal(t, []string{"dua_online"}, resourceIDs(plan.ImmediateActions[0].Resources), "unknown IDs are dropped")
	assert.Equal(t, "DUA Online", plan.ImmediateActions[0].Resources[0].Name)
	assert.Equal(t, []string{"masshire"}, resourceIDs(plan.ShortTermActions[0].Resources))
	assert.Empty(t, plan.OngoingActions[0].Resources)
	assert.NotNil(t, plan.OngoingActions[0].Resources)
	assert.Equal(t, []string{"mass_211"}, resourceIDs(plan.HiddenResources))

	for _, band := range plan.Bands() {
		for _, item := range band {
			assert.False(t, item.Completed)
		}
	}
}

// Scenario A: recent layoff, not part of a mass layoff.
func TestAssemble_RecentLayoff(t *testing.T) {
	p := types.NewUserProfile()
	p.Timeline = types.TimelineRecent
	p.SeparationReason = types.ReasonLayoff
	p.AdditionalInfo[types.InfoLayoffType] = "permanent"

	category := eligibility.Classify(p)
	require.Equal(t, types.CategoryLayoffEligible, category)

	plan, err := NewEngine(testCatalog()).Assemble(category, p)
	require.NoError(t, err)

	assert.Equal(t, []string{"mass_211", "healthcare_coverage"}, resourceIDs(plan.HiddenResources))
	assert.Equal(t, "You were laid off. Since your job loss is recent, acting quickly will help you access benefits sooner.", plan.Description)
	assert.NotContains(t, plan.Description, "WARN")
}

// Scenario B: long-term unemployed after being fired for misconduct. The
// misconduct template is absent here, so the fallback plan is used.
func TestAssemble_FallbackForMissingTemplate(t *testing.T) {
	p := types.NewUserProfile()
	p.Timeline = types.TimelineLongTerm
	p.SeparationReason = types.ReasonFired
	p.AdditionalInfo[types.InfoTerminationReason] = "misconduct"

	category := eligibility.Classify(p)
	require.Equal(t, types.CategoryMisconductTermination, category)

	plan, err := NewEngine(testCatalog()).Assemble(category, p)
	require.NoError(t, err)

	assert.Equal(t, FallbackTitle, plan.Title)
	assert.Equal(t, FallbackDescription+" Even though some time has passed, there are still resources and programs available to help you.", plan.Description)
	assert.Equal(t, types.CategoryMisconductTermination, plan.EligibilityCategory)
	assert.Equal(t, "file_claim", plan.ImmediateActions[0].ID)
	assert.Equal(t, []string{"mass_211", "snap_benefits", "fuel_assistance", "legal_aid"}, resourceIDs(plan.HiddenResources))
}

// Scenario C: health separation a few weeks ago.
func TestAssemble_HealthSeparation(t *testing.T) {
	p := types.NewUserProfile()
	p.Timeline = types.TimelineWeeks
	p.SeparationReason = types.ReasonHealth

	plan, err := NewEngine(testCatalog()).Assemble(eligibility.Classify(p), p)
	require.NoError(t, err)

	assert.Equal(t, "Health Plan", plan.Title)
	assert.Equal(t, "Health comes first.", plan.Description)
	assert.Equal(t, []string{"healthcare_coverage", "disability_services"}, resourceIDs(plan.HiddenResources))
}

func TestAssemble_MassLayoff(t *testing.T) {
	tests := []struct {
		value string
		warn  bool
	}{
		{"true", true},
		{"yes", true},
		{"1", true},
		{"TRUE", true},
		{"", false},
		{"false", false},
		{"False", false},
		{"no", false},
		{"0", false},
	}

	e := NewEngine(testCatalog())
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			p := types.NewUserProfile()
			p.SeparationReason = types.ReasonLayoff
			p.AdditionalInfo[types.InfoMassLayoff] = tt.value

			plan, err := e.Assemble(types.CategoryLayoffEligible, p)
			require.NoError(t, err)
			assert.Equal(t, tt.warn, strings.Contains(plan.Description, "WARN"))
		})
	}
}

func TestAssemble_MassLayoffRequiresLayoffReason(t *testing.T) {
	p := types.NewUserProfile()
	p.SeparationReason = types.ReasonCompanyClosed
	p.AdditionalInfo[types.InfoMassLayoff] = "true"

	plan, err := NewEngine(testCatalog()).Assemble(types.CategoryLayoffEligible, p)
	require.NoError(t, err)
	assert.NotContains(t, plan.Description, "WARN")
}

func TestAssemble_NoTemplate(t *testing.T) {
	e := NewEngine(catalog.New(nil, nil, nil))
	plan, err := e.Assemble(types.CategoryLayoffEligible, types.NewUserProfile())
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrNoTemplate)
}

func TestAssemble_DoesNotMutateCatalog(t *testing.T) {
	c := testCatalog()
	before, _ := c.Template(types.CategoryLayoffEligible)
	beforeTitle := before.ImmediateActions[0].Title
	beforeRes := append([]string(nil), before.ImmediateActions[0].Resources...)

	e := NewEngine(c)
	p := types.NewUserProfile()
	p.Timeline = types.TimelineRecent

	first, err := e.Assemble(types.CategoryLayoffEligible, p)
	require.NoError(t, err)
	first.ImmediateActions[0].Title = "changed"
	first.ImmediateActions[0].Completed = true
	first.ImmediateActions[0].Resources[0].Name = "changed"
	first.HiddenResources = append(first.HiddenResources, types.ResourceLink{ID: "extra"})

	second, err := e.Assemble(types.CategoryLayoffEligible, p)
	require.NoError(t, err)

	after, _ := c.Template(types.CategoryLayoffEligible)
	assert.Equal(t, beforeTitle, after.ImmediateActions[0].Title)
	assert.Equal(t, beforeRes, after.ImmediateActions[0].Resources)
	assert.Equal(t, []string{"mass_211"}, after.HiddenResources)

	assert.Equal(t, beforeTitle, second.ImmediateActions[0].Title)
	assert.False(t, second.ImmediateActions[0].Completed)
	assert.Equal(t, "DUA Online", second.ImmediateActions[0].Resources[0].Name)
	assert.Equal(t, first.Description, second.Description, "description suffixes must not accumulate")
}

func TestAssemble_FreshIDs(t *testing.T) {
	e := NewEngine(testCatalog())
	a, err := e.Assemble(types.CategoryLayoffEligible, types.NewUserProfile())
	require.NoError(t, err)
	b, err := e.Assemble(types.CategoryLayoffEligible, types.NewUserProfile())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAssemble_MissingBonusResourcesSkipped(t *testing.T) {
	c := catalog.New(nil, map[types.Category]types.PlanTemplate{
		types.CategoryLayoffEligible: {ID: "p", Title: "T", Description: "D"},
	}, nil)

	p := types.NewUserProfile()
	p.Timeline = types.TimelineMonths
	p.SeparationReason = types.ReasonFired

	plan, err := NewEngine(c).Assemble(types.CategoryFiredPerformance, p)
	require.NoError(t, err)
	assert.Empty(t, plan.HiddenResources)
}

func TestAssemble_CustomRules(t *testing.T) {
	e := NewEngine(testCatalog(), WithRules(
		[]ResourceRule{{Name: "always", When: func(types.UserProfile) bool { return true }, Resources: []string{"pfml"}}},
		nil,
	))
	p := types.NewUserProfile()
	p.Timeline = types.TimelineRecent

	plan, err := e.Assemble(types.CategoryLayoffEligible, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"mass_211", "pfml"}, resourceIDs(plan.HiddenResources))
	assert.Equal(t, "You were laid off.", plan.Description)
}

func TestAssemble_DefaultCatalogCoversEveryCategory(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, c.Require(Requirements()))

	e := NewEngine(c)
	for _, category := range eligibility.Categories() {
		plan, err := e.Assemble(category, types.NewUserProfile())
		require.NoError(t, err, category)
		assert.Equal(t, category, plan.EligibilityCategory)
		_, total := plan.Progress()
		assert.Positive(t, total, category)
	}
}

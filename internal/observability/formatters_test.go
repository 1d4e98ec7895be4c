package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/unemployment-navigator/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := types.NewUserProfile()
	profile.Timeline = types.TimelineRecent
	profile.SeparationReason = types.ReasonLayoff
	profile.AdditionalInfo[types.InfoLayoffType] = "permanent"
	profile.EligibilityCategory = types.CategoryLayoffEligible

	p.PrintProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "PROFILE")
	assert.Contains(t, output, "unemployed")
	assert.Contains(t, output, "recent")
	assert.Contains(t, output, "layoffType: permanent")
	assert.Contains(t, output, "layoff_eligible")
}

func TestPrintActionPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	plan := &types.ActionPlan{
		Title:       "Your Layoff Action Plan",
		Description: "You were laid off.",
		ImmediateActions: []types.ActionItem{
			{ID: "file", Title: "File your claim", TimeEstimate: "30 minutes", Completed: true,
				Resources: []types.ResourceLink{{Name: "DUA Online", URL: "https://www.mass.gov/dua"}}},
		},
		OngoingActions: []types.ActionItem{{ID: "weekly", Title: "Request benefits weekly"}},
		HiddenResources: []types.ResourceLink{
			{Name: "Mass 211", Phone: "211", URL: "https://mass211.org"},
		},
	}

	p.PrintActionPlan(plan)
	output := buf.String()

	assert.Contains(t, output, "YOUR LAYOFF ACTION PLAN")
	assert.Contains(t, output, "Progress: 1/2 complete")
	assert.Contains(t, output, "[x] File your claim (30 minutes)")
	assert.Contains(t, output, "[ ] Request benefits weekly")
	assert.NotContains(t, output, "SHORT TERM")
	assert.Contains(t, output, "ADDITIONAL RESOURCES")
	assert.Contains(t, output, "Mass 211 211")
}

func TestPrintActionPlan_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintActionPlan(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResources_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var resources []types.ResourceLink
	for i := 0; i < maxItemsToShow+2; i++ {
		resources = append(resources, types.ResourceLink{ID: "r", URL: "https://example.org", Category: types.ResourceOther})
	}

	p.PrintResources("RESOURCES", resources, false)
	assert.Contains(t, buf.String(), "... and 2 more")

	buf.Reset()
	p.PrintResources("RESOURCES", resources, true)
	assert.NotContains(t, buf.String(), "more")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSummary("CATALOG OK", "questions: 8", "templates: 11")
	output := buf.String()
	assert.Contains(t, output, "CATALOG OK")
	assert.Contains(t, output, "questions: 8")
	assert.True(t, strings.HasPrefix(output, "╔"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))

	lines := wrap("  one two three four five", 12)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 12)
		assert.True(t, strings.HasPrefix(l, "  "))
	}
	assert.Greater(t, len(lines), 1)
}

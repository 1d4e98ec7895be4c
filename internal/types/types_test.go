//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdditionalInfoKey(t *testing.T) {
	tests := []struct {
		reason SeparationReason
		want   string
	}{
		{ReasonFired, InfoTerminationReason},
		{ReasonQuit, InfoQuitReason},
		{ReasonLayoff, InfoLayoffType},
		{ReasonHealth, InfoHealthCondition},
		{ReasonContractEnd, InfoAdditionalDetails},
		{ReasonCompanyClosed, InfoAdditionalDetails},
		{"", InfoAdditionalDetails},
		{"something else", InfoAdditionalDetails},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			assert.Equal(t, tt.want, AdditionalInfoKey(tt.reason))
		})
	}
}

func TestNewUserProfile_Defaults(t *testing.T) {
	p := NewUserProfile()
	assert.Equal(t, StatusUnemployed, p.EmploymentStatus)
	assert.Empty(t, p.SeparationReason)
	assert.Empty(t, p.Timeline)
	assert.NotNil(t, p.AdditionalInfo)
	assert.Empty(t, p.AdditionalInfo)
}

func TestUserProfile_CloneDoesNotShareMap(t *testing.T) {
	p := NewUserProfile()
	p.AdditionalInfo[InfoLayoffType] = "permanent"

	c := p.Clone()
	c.AdditionalInfo[InfoLayoffType] = "temporary"

	assert.Equal(t, "permanent", p.AdditionalInfo[InfoLayoffType])
	assert.Equal(t, "temporary", c.AdditionalInfo[InfoLayoffType])
}

func TestQuestion_ShowOptions(t *testing.T) {
	var nilQuestion *Question
	assert.False(t, nilQuestion.ShowOptions())

	q := &Question{ID: "q", InputType: InputRadio}
	assert.False(t, q.ShowOptions(), "radio without options")

	q.Options = []Option{{Value: "a", Label: "A"}}
	assert.True(t, q.ShowOptions())

	q.InputType = InputText
	assert.False(t, q.ShowOptions())
}

func TestQuestion_LabelFor(t *testing.T) {
	q := &Question{Options: []Option{{Value: "layoff", Label: "I was laid off"}}}
	assert.Equal(t, "I was laid off", q.LabelFor("layoff"))
	assert.Equal(t, "typed text", q.LabelFor("typed text"))
}

func samplePlan() *ActionPlan {
	return &ActionPlan{
		ID:    "plan-1",
		Title: "Plan",
		ImmediateActions: []ActionItem{
			{ID: "file_claim", Resources: []ResourceLink{{ID: "dua"}}},
		},
		ShortTermActions: []ActionItem{
			{ID: "resume", Completed: true},
		},
		OngoingActions: []ActionItem{
			{ID: "work_search"},
		},
		HiddenResources: []ResourceLink{{ID: "snap_benefits"}},
	}
}

func TestActionPlan_FindItem(t *testing.T) {
	plan := samplePlan()

	item := plan.FindItem("work_search")
	require.NotNil(t, item)
	item.Completed = true
	assert.True(t, plan.OngoingActions[0].Completed, "FindItem must return a pointer into the plan")

	assert.Nil(t, plan.FindItem("missing"))

	var nilPlan *ActionPlan
	assert.Nil(t, nilPlan.FindItem("file_claim"))
}

func TestActionPlan_Progress(t *testing.T) {
	completed, total := samplePlan().Progress()
	assert.Equal(t, 1, completed)
	assert.Equal(t, 3, total)
}

func TestActionPlan_Clone(t *testing.T) {
	plan := samplePlan()
	c := plan.Clone()
	require.Equal(t, plan, c)

	c.ImmediateActions[0].Resources[0].ID = "changed"
	c.HiddenResources[0].ID = "changed"
	c.ShortTermActions[0].Completed = false

	assert.Equal(t, "dua", plan.ImmediateActions[0].Resources[0].ID)
	assert.Equal(t, "snap_benefits", plan.HiddenResources[0].ID)
	assert.True(t, plan.ShortTermActions[0].Completed)
}

func TestSession_NormalizeAfterDecode(t *testing.T) {
	raw := `{
		"id": "abc",
		"messages": [{"id": "m1", "content": "hi", "sender": "bot", "timestamp": "2025-03-01T10:00:00-05:00"}],
		"user_profile": {}
	}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	s.Normalize()

	assert.Equal(t, StepInitial, s.CurrentStep)
	assert.Equal(t, StatusUnemployed, s.Profile.EmploymentStatus)
	assert.NotNil(t, s.Profile.AdditionalInfo)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, time.UTC, s.Messages[0].Timestamp.Location())
	assert.Equal(t, 15, s.Messages[0].Timestamp.Hour())
}

func TestSession_NormalizeClearsTyping(t *testing.T) {
	s := Session{ID: "abc", IsTyping: true}
	s.Normalize()
	assert.False(t, s.IsTyping)
}

func TestRespondRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request RespondRequest
		wantErr bool
	}{
		{name: "option value", request: RespondRequest{Response: "layoff", Label: "I was laid off"}},
		{name: "free text", request: RespondRequest{Response: "my plant shut down last week"}},
		{name: "empty response", request: RespondRequest{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRespondRequest_Trim(t *testing.T) {
	req := RespondRequest{Response: " unemployed \n", Label: "\tI am unemployed "}
	req.Trim()
	assert.Equal(t, "unemployed", req.Response)
	assert.Equal(t, "I am unemployed", req.Label)
	assert.NoError(t, req.Validate())

	blank := RespondRequest{Response: "   "}
	blank.Trim()
	assert.Error(t, blank.Validate())
}

func TestCreateSessionRequest_Validation(t *testing.T) {
	assert.NoError(t, (&CreateSessionRequest{}).Validate())
	assert.NoError(t, (&CreateSessionRequest{SessionID: "6f1c2a9e-4b7d-4c1e-9a3f-2d5e8b7c1a00"}).Validate())
	assert.Error(t, (&CreateSessionRequest{SessionID: "not-a-uuid"}).Validate())
}

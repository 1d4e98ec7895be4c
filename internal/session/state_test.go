package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonathan/unemployment-navigator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	snapshots []*types.Session
}

func (r *recorder) Persist(s *types.Session) { r.snapshots = append(r.snapshots, s) }

func testOptions(rec *recorder) []Option {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var tick, seq int
	return []Option{
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithPersister(rec),
	}
}

func testPlan() *types.ActionPlan {
	return &types.ActionPlan{
		ID:                  "plan-1",
		Title:               "Plan",
		EligibilityCategory: types.CategoryLayoffEligible,
		ImmediateActions:    []types.ActionItem{{ID: "file_claim"}},
		ShortTermActions:    []types.ActionItem{{ID: "register"}},
		OngoingActions:      []types.ActionItem{{ID: "weekly"}},
	}
}

func TestNew_InitialState(t *testing.T) {
	st := New("abc", testOptions(&recorder{})...)
	snap := st.Snapshot()

	assert.Equal(t, "abc", snap.ID)
	assert.Empty(t, snap.Messages)
	assert.Equal(t, types.StepInitial, snap.CurrentStep)
	assert.Equal(t, types.StatusUnemployed, snap.Profile.EmploymentStatus)
	assert.False(t, snap.IsTyping)
	assert.False(t, snap.ConversationComplete)
	assert.Nil(t, snap.ActionPlan)
}

func TestNew_GeneratesID(t *testing.T) {
	st := New("", testOptions(&recorder{})...)
	assert.Equal(t, "id-1", st.ID())
}

func TestAppendMessage(t *testing.T) {
	rec := &recorder{}
	st := New("abc", testOptions(rec)...)

	first := st.AppendMessage("hello", types.SenderBot, "")
	second := st.AppendMessage("what's your status?", types.SenderBot, types.MessageQuestion)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.Timestamp.After(first.Timestamp))
	assert.Equal(t, types.MessageQuestion, second.Type)

	snap := st.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "hello", snap.Messages[0].Content)
	assert.Len(t, rec.snapshots, 2)
	assert.Len(t, rec.snapshots[0].Messages, 1, "persisted snapshots are copies")
}

func TestUpdateProfile_CopiesMap(t *testing.T) {
	st := New("abc", testOptions(&recorder{})...)
	p := types.NewUserProfile()
	p.AdditionalInfo[types.InfoLayoffType] = "permanent"

	st.UpdateProfile(p)
	p.AdditionalInfo[types.InfoLayoffType] = "temporary"

	assert.Equal(t, "permanent", st.Profile().AdditionalInfo[types.InfoLayoffType])
}

func TestInstallPlan(t *testing.T) {
	rec := &recorder{}
	st := New("abc", testOptions(rec)...)
	st.SetStep(types.StepFollowUp)

	st.InstallPlan(testPlan())

	snap := st.Snapshot()
	assert.True(t, snap.ConversationComplete)
	assert.Equal(t, types.StepActionPlan, snap.CurrentStep)
	require.NotNil(t, snap.ActionPlan)
	assert.Equal(t, "plan-1", snap.ActionPlan.ID)
	assert.Equal(t, types.CategoryLayoffEligible, snap.Profile.EligibilityCategory)

	last := rec.snapshots[len(rec.snapshots)-1]
	assert.True(t, last.ConversationComplete)
	assert.NotNil(t, last.ActionPlan, "plan and completion are persisted together")
}

func TestToggleActionItem(t *testing.T) {
	st := New("abc", testOptions(&recorder{})...)
	st.InstallPlan(testPlan())

	assert.True(t, st.ToggleActionItem("register"))
	assert.True(t, st.Plan().ShortTermActions[0].Completed)

	assert.True(t, st.ToggleActionItem("register"))
	assert.Equal(t, testPlan().ShortTermActions, st.Plan().ShortTermActions, "toggling twice restores the plan")
}

func TestToggleActionItem_Missing(t *testing.T) {
	rec := &recorder{}
	st := New("abc", testOptions(rec)...)
	assert.False(t, st.ToggleActionItem("file_claim"), "no plan installed")

	st.InstallPlan(testPlan())
	before := st.Snapshot()
	n := len(rec.snapshots)

	assert.False(t, st.ToggleActionItem("nope"))
	assert.Equal(t, before, st.Snapshot())
	assert.Len(t, rec.snapshots, n, "no-op toggles are not persisted")
}

func TestReset(t *testing.T) {
	rec := &recorder{}
	opts := testOptions(rec)
	st := New("abc", opts...)
	st.AppendMessage("hi", types.SenderUser, "")
	p := types.NewUserProfile()
	p.Timeline = types.TimelineWeeks
	st.UpdateProfile(p)
	st.SetTyping(true)
	st.InstallPlan(testPlan())

	st.Reset()
	snap := st.Snapshot()

	want := Initial("abc", snap.CreatedAt)
	assert.Equal(t, &want, snap)
}

func TestMarkFailed(t *testing.T) {
	st := New("abc", testOptions(&recorder{})...)
	st.SetTyping(true)
	st.MarkFailed()

	assert.True(t, st.Failed())
	assert.False(t, st.Snapshot().IsTyping)
	assert.False(t, st.Complete())
}

func TestRestore_ClearsTypingIndicator(t *testing.T) {
	st := New("abc", testOptions(&recorder{})...)
	st.SetTyping(true)
	saved := st.Snapshot()
	require.True(t, saved.IsTyping)

	restored := Restore(saved, testOptions(&recorder{})...)

	assert.False(t, restored.Snapshot().IsTyping)
}

func TestRestore_CopiesSnapshot(t *testing.T) {
	snap := New("abc", testOptions(&recorder{})...).Snapshot()
	snap.Messages = nil
	snap.Profile.AdditionalInfo = nil

	st := Restore(snap, testOptions(&recorder{})...)
	st.AppendMessage("hi", types.SenderUser, "")

	assert.Nil(t, snap.Messages)
	assert.NotNil(t, st.Snapshot().Profile.AdditionalInfo)
	assert.Equal(t, 1, st.MessageCount())
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	st := New("abc", testOptions(&recorder{})...)
	st.InstallPlan(testPlan())

	snap := st.Snapshot()
	snap.ActionPlan.ImmediateActions[0].Completed = true
	snap.Profile.AdditionalInfo["x"] = "y"

	assert.False(t, st.Plan().ImmediateActions[0].Completed)
	assert.NotContains(t, st.Profile().AdditionalInfo, "x")
}

// Package session holds the mutable state of one interview and the stores
// that persist it between runs.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/unemployment-navigator/internal/types"
)

// Persister receives a snapshot after every mutation. Implementations must
// not block for long and must not report errors back to the caller.
type Persister interface {
	Persist(snapshot *types.Session)
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(snapshot *types.Session)

// Persist calls f(snapshot).
func (f PersisterFunc) Persist(snapshot *types.Session) { f(snapshot) }

type noopPersister struct{}

func (noopPersister) Persist(*types.Session) {}

// State is the authoritative state of one interview. It is not safe for
// concurrent use; callers serialize access per session.
type State struct {
	s       types.Session
	now     func() time.Time
	newID   func() string
	persist Persister
}

// Option configures a State.
type Option func(*State)

// WithClock sets the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(st *State) { st.now = now }
}

// WithIDGenerator sets the generator for message IDs.
func WithIDGenerator(fn func() string) Option {
	return func(st *State) { st.newID = fn }
}

// WithPersister sets the persister notified after each mutation.
func WithPersister(p Persister) Option {
	return func(st *State) { st.persist = p }
}

func newState(opts []Option) *State {
	st := &State{
		now:     time.Now,
		newID:   uuid.NewString,
		persist: noopPersister{},
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// New creates the initial state for a session. An empty id gets a fresh UUID.
func New(id string, opts ...Option) *State {
	st := newState(opts)
	if id == "" {
		id = st.newID()
	}
	st.s = Initial(id, st.now())
	return st
}

// Restore resumes a previously persisted snapshot. The snapshot is copied.
func Restore(snapshot *types.Session, opts ...Option) *State {
	st := newState(opts)
	st.s = *snapshot.Clone()
	st.s.Normalize()
	return st
}

// Initial returns the empty snapshot every session starts from.
func Initial(id string, now time.Time) types.Session {
	now = now.UTC()
	return types.Session{
		ID:          id,
		Messages:    []types.ChatMessage{},
		Profile:     types.NewUserProfile(),
		CurrentStep: types.StepInitial,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ID returns the session identifier.
func (st *State) ID() string { return st.s.ID }

// Step returns the current interview step.
func (st *State) Step() types.Step { return st.s.CurrentStep }

// Profile returns a copy of the accumulated profile.
func (st *State) Profile() types.UserProfile { return st.s.Profile.Clone() }

// Complete reports whether a plan has been installed.
func (st *State) Complete() bool { return st.s.ConversationComplete }

// Failed reports whether plan generation failed.
func (st *State) Failed() bool { return st.s.Failed }

// Plan returns a copy of the installed plan, or nil.
func (st *State) Plan() *types.ActionPlan { return st.s.ActionPlan.Clone() }

// MessageCount returns the number of messages in the transcript.
func (st *State) MessageCount() int { return len(st.s.Messages) }

// Snapshot returns a deep copy of the current state.
func (st *State) Snapshot() *types.Session {
	return st.s.Clone()
}

func (st *State) changed() {
	st.s.UpdatedAt = st.now().UTC()
	st.persist.Persist(st.Snapshot())
}

// AppendMessage adds a message to the transcript and returns it.
func (st *State) AppendMessage(content string, sender types.Sender, msgType types.MessageType) types.ChatMessage {
	msg := types.ChatMessage{
		ID:        st.newID(),
		Content:   content,
		Sender:    sender,
		Timestamp: st.now().UTC(),
		Type:      msgType,
	}
	st.s.Messages = append(st.s.Messages, msg)
	st.changed()
	return msg
}

// UpdateProfile replaces the profile. The caller's map is copied.
func (st *State) UpdateProfile(profile types.UserProfile) {
	st.s.Profile = profile.Clone()
	st.changed()
}

// SetStep moves the interview to step.
func (st *State) SetStep(step types.Step) {
	st.s.CurrentStep = step
	st.changed()
}

// SetTyping sets the typing indicator.
func (st *State) SetTyping(typing bool) {
	st.s.IsTyping = typing
	st.changed()
}

// InstallPlan stores plan and completes the interview in one step.
func (st *State) InstallPlan(plan *types.ActionPlan) {
	st.s.ActionPlan = plan.Clone()
	st.s.ConversationComplete = true
	st.s.CurrentStep = types.StepActionPlan
	if plan != nil {
		st.s.Profile.EligibilityCategory = plan.EligibilityCategory
	}
	st.changed()
}

// MarkFailed halts the interview after a plan could not be produced.
func (st *State) MarkFailed() {
	st.s.Failed = true
	st.s.IsTyping = false
	st.changed()
}

// ToggleActionItem flips the completed flag of the action item with the
// given ID. It reports whether an item was found; a missing item or plan
// leaves the state unchanged.
func (st *State) ToggleActionItem(id string) bool {
	item := st.s.ActionPlan.FindItem(id)
	if item == nil {
		return false
	}
	item.Completed = !item.Completed
	st.changed()
	return true
}

// Reset restores the initial snapshot, keeping the session ID.
func (st *State) Reset() {
	st.s = Initial(st.s.ID, st.now())
	st.persist.Persist(st.Snapshot())
}

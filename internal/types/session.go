package types

import "time"

// Session is the serializable snapshot of one interview. It is what the
// session stores persist and what the presentation layer renders.
type Session struct {
	ID                   string        `json:"id"`
	Messages             []ChatMessage `json:"messages"`
	Profile              UserProfile   `json:"user_profile"`
	CurrentStep          Step          `json:"current_step"`
	IsTyping             bool          `json:"is_typing"`
	ConversationComplete bool          `json:"conversation_complete"`
	Failed               bool          `json:"failed,omitempty"`
	ActionPlan           *ActionPlan   `json:"action_plan,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// Clone returns a deep copy of the snapshot.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = cloneSlice(s.Messages)
	out.Profile = s.Profile.Clone()
	out.ActionPlan = s.ActionPlan.Clone()
	return &out
}

// Normalize repairs fields that may come back from storage in a degraded
// form: nil maps, nil slices, non-UTC timestamps and an empty step. A typing
// indicator never survives a reload.
func (s *Session) Normalize() {
	s.IsTyping = false
	if s.Messages == nil {
		s.Messages = []ChatMessage{}
	}
	for i := range s.Messages {
		s.Messages[i].Timestamp = s.Messages[i].Timestamp.UTC()
	}
	if s.Profile.AdditionalInfo == nil {
		s.Profile.AdditionalInfo = map[string]string{}
	}
	if s.Profile.EmploymentStatus == "" {
		s.Profile.EmploymentStatus = StatusUnemployed
	}
	if s.CurrentStep == "" {
		s.CurrentStep = StepInitial
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
}

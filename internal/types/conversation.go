package types

import "time"

// Step is a named stage of the interview.
type Step string

// Interview steps in the order they are normally visited.
const (
	StepInitial          Step = "initial"
	StepEmploymentStatus Step = "employment_status"
	StepTimeline         Step = "timeline"
	StepSeparationReason Step = "separation_reason"
	StepFollowUp         Step = "follow_up"
	StepActionPlan       Step = "action_plan"
)

// Steps lists every known step.
var Steps = []Step{
	StepInitial,
	StepEmploymentStatus,
	StepTimeline,
	StepSeparationReason,
	StepFollowUp,
	StepActionPlan,
}

// InputType tells the presentation layer how to collect an answer.
type InputType string

// Supported input types.
const (
	InputText   InputType = "text"
	InputSelect InputType = "select"
	InputRadio  InputType = "radio"
)

// Option is a selectable answer for a question.
type Option struct {
	Value          string `json:"value"`
	Label          string `json:"label"`
	NextQuestionID string `json:"next_question_id,omitempty"`
}

// Question is a catalog entry shown to the person.
type Question struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	InputType InputType `json:"input_type"`
	Options   []Option  `json:"options,omitempty"`
	Category  string    `json:"category"`
}

// ShowOptions reports whether the question should be rendered as a set of
// selectable options rather than a free-text prompt.
func (q *Question) ShowOptions() bool {
	return q != nil && q.InputType == InputRadio && len(q.Options) > 0
}

// LabelFor returns the label of the option with the given value, or the
// value itself when no option matches.
func (q *Question) LabelFor(value string) string {
	if q != nil {
		for _, opt := range q.Options {
			if opt.Value == value {
				return opt.Label
			}
		}
	}
	return value
}

// Sender identifies who wrote a chat message.
type Sender string

// Message senders.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageType is a rendering hint for a chat message.
type MessageType string

// Message types.
const (
	MessageText       MessageType = "text"
	MessageQuestion   MessageType = "question"
	MessageActionPlan MessageType = "action_plan"
)

// ChatMessage is one entry in the append-only transcript.
type ChatMessage struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type,omitempty"`
}

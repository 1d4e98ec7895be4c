package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RespondRequest carries one answer from the presentation layer. Response is
// either free text or the literal value of a selected option; Label is the
// text to echo into the transcript when an option was picked.
type RespondRequest struct {
	Response string `json:"response" validate:"required,max=2000"`
	Label    string `json:"label,omitempty" validate:"max=500"`
}

// CreateSessionRequest optionally names the session to create.
type CreateSessionRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,uuid"`
}

// TurnResponse is returned after a turn has been processed.
type TurnResponse struct {
	Session      *Session      `json:"session"`
	Messages     []ChatMessage `json:"messages"`
	NextQuestion *Question     `json:"next_question,omitempty"`
	ShowOptions  bool          `json:"show_options"`
	ActionPlan   *ActionPlan   `json:"action_plan,omitempty"`
}

// Trim strips surrounding whitespace from the answer and its label, so an
// answer of only spaces is rejected as empty.
func (r *RespondRequest) Trim() {
	r.Response = strings.TrimSpace(r.Response)
	r.Label = strings.TrimSpace(r.Label)
}

// Validate validates the RespondRequest using the validator.
func (r *RespondRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

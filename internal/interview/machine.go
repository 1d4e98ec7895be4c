// Package interview implements the scripted interview: recording answers into
// the profile, choosing the next question and step, and the bot's reply to
// each answer.
package interview

import (
	"github.com/jonathan/unemployment-navigator/internal/catalog"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// Question IDs the interview asks for.
const (
	QuestionInitial            = "initial"
	QuestionEmploymentStatus   = "employment_status"
	QuestionTimeline           = "unemployment_timeline"
	QuestionSeparationReason   = "separation_reason"
	QuestionLayoffDetails      = "layoff_details"
	QuestionTerminationDetails = "termination_details"
	QuestionQuitReason         = "quit_reason"
	QuestionHealthDetails      = "health_details"
)

// QuestionSource looks up catalog questions by ID.
type QuestionSource interface {
	Question(id string) (*types.Question, bool)
}

// Machine decides what to ask next. It holds no per-session state and may
// be shared.
type Machine struct {
	questions QuestionSource
}

// NewMachine creates a Machine backed by the given question catalog.
func NewMachine(questions QuestionSource) *Machine {
	return &Machine{questions: questions}
}

// Requirements lists the catalog entries the machine looks up.
func Requirements() catalog.Requirements {
	return catalog.Requirements{
		Questions: []string{
			QuestionInitial,
			QuestionEmploymentStatus,
			QuestionTimeline,
			QuestionSeparationReason,
			QuestionLayoffDetails,
			QuestionTerminationDetails,
			QuestionQuitReason,
			QuestionHealthDetails,
		},
	}
}

// Opening returns the question that greets a new session.
func (m *Machine) Opening() (*types.Question, bool) {
	return m.questions.Question(QuestionInitial)
}

// NextQuestion returns the question to ask after response was given at step.
// profile must already include the response (see Apply). A false result
// means the interview is over and a plan should be generated.
func (m *Machine) NextQuestion(step types.Step, response string, profile types.UserProfile) (*types.Question, bool) {
	id := nextQuestionID(step, response, profile)
	if id == "" {
		return nil, false
	}
	return m.questions.Question(id)
}

func nextQuestionID(step types.Step, response string, profile types.UserProfile) string {
	switch step {
	case types.StepInitial:
		return QuestionEmploymentStatus
	case types.StepEmploymentStatus:
		if profile.EmploymentStatus == types.StatusUnemployed {
			return QuestionTimeline
		}
		return ""
	case types.StepTimeline:
		return QuestionSeparationReason
	case types.StepSeparationReason:
		switch types.SeparationReason(response) {
		case types.ReasonLayoff:
			return QuestionLayoffDetails
		case types.ReasonFired:
			return QuestionTerminationDetails
		case types.ReasonQuit:
			return QuestionQuitReason
		case types.ReasonHealth:
			return QuestionHealthDetails
		}
		return ""
	default:
		return ""
	}
}

// Pending returns the question that is waiting for an answer at step, as
// it was asked when the interview moved there. A false result means nothing
// is pending.
func (m *Machine) Pending(step types.Step, profile types.UserProfile) (*types.Question, bool) {
	var id string
	switch step {
	case types.StepInitial:
		id = QuestionInitial
	case types.StepEmploymentStatus:
		id = QuestionEmploymentStatus
	case types.StepTimeline:
		id = QuestionTimeline
	case types.StepSeparationReason:
		id = QuestionSeparationReason
	case types.StepFollowUp:
		if profile.EmploymentStatus != types.StatusUnemployed {
			return nil, false
		}
		id = nextQuestionID(types.StepSeparationReason, string(profile.SeparationReason), profile)
	}
	if id == "" {
		return nil, false
	}
	return m.questions.Question(id)
}

// NextStep returns the step that follows step.
func NextStep(step types.Step, profile types.UserProfile) types.Step {
	switch step {
	case types.StepInitial:
		return types.StepEmploymentStatus
	case types.StepEmploymentStatus:
		if profile.EmploymentStatus == types.StatusUnemployed {
			return types.StepTimeline
		}
		return types.StepFollowUp
	case types.StepTimeline:
		return types.StepSeparationReason
	case types.StepSeparationReason:
		return types.StepFollowUp
	default:
		return types.StepActionPlan
	}
}

// Transition is the outcome of one answer.
type Transition struct {
	Profile  types.UserProfile
	Reply    string
	Question *types.Question
	Next     types.Step
}

// Done reports whether the interview has no further questions.
func (t Transition) Done() bool {
	return t.Question == nil
}

// Advance applies response at step and computes the reply, the next question
// and the next step from the updated profile.
func (m *Machine) Advance(step types.Step, response string, profile types.UserProfile) Transition {
	updated := Apply(step, response, profile)
	q, _ := m.NextQuestion(step, response, updated)
	return Transition{
		Profile:  updated,
		Reply:    Reply(step, updated),
		Question: q,
		Next:     NextStep(step, updated),
	}
}

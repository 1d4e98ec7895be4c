package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionFailed is returned for turns on a session whose plan could
	// not be produced.
	ErrSessionFailed = errors.New("session failed; start over to try again")
	// ErrConversationComplete is returned for turns after the plan was
	// installed.
	ErrConversationComplete = errors.New("conversation is already complete")
	// ErrNoActionPlan is returned when an operation needs a plan that does
	// not exist yet.
	ErrNoActionPlan = errors.New("no action plan yet")
)

// NotFoundError reports an unknown session.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ConflictError reports an attempt to create a session that already exists.
type ConflictError struct {
	SessionID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session already exists: %s", e.SessionID)
}

// InvalidInputError reports a malformed request.
type InvalidInputError struct {
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

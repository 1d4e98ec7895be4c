// Package server provides the HTTP JSON API for the unemployment navigator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing catalog entry
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		notFound   *ErrNotFound
		invalid    *conversation.InvalidInputError
		missing    *conversation.NotFoundError
		conflict   *conversation.ConflictError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &invalid), errors.Is(err, session.ErrInvalidID):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &missing), errors.Is(err, conversation.ErrNoActionPlan):
		return http.StatusNotFound
	case errors.As(err, &conflict),
		errors.Is(err, conversation.ErrConversationComplete),
		errors.Is(err, conversation.ErrSessionFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

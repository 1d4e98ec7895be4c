package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/session"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "response", Message: "required"}
	assert.Equal(t, "validation error: response - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Kind: "question", ID: "missing"}
	assert.Equal(t, "question not found: missing", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "invalid input",
			err:      &conversation.InvalidInputError{Message: "response"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "invalid session id",
			err:      fmt.Errorf("load: %w", session.ErrInvalidID),
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown session",
			err:      &conversation.NotFoundError{SessionID: "abc"},
			expected: http.StatusNotFound,
		},
		{
			name:     "no plan yet",
			err:      conversation.ErrNoActionPlan,
			expected: http.StatusNotFound,
		},
		{
			name:     "session exists",
			err:      &conversation.ConflictError{SessionID: "abc"},
			expected: http.StatusConflict,
		},
		{
			name:     "conversation complete",
			err:      conversation.ErrConversationComplete,
			expected: http.StatusConflict,
		},
		{
			name:     "session failed",
			err:      fmt.Errorf("respond: %w", conversation.ErrSessionFailed),
			expected: http.StatusConflict,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

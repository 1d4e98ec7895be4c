package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// SSE event names besides the update kinds.
const (
	eventComplete = "complete"
	eventError    = "error"
)

// SSEWriter streams the updates of one turn as Server-Sent Events. Each
// update kind becomes an event of the same name; the turn ends with a
// "complete" or "error" event.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sends the stream headers. It fails if w cannot flush.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends one event with a JSON payload.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteUpdate sends a turn update under its kind.
func (s *SSEWriter) WriteUpdate(u conversation.Update) error {
	return s.WriteEvent(string(u.Kind), u)
}

// WriteError ends the stream with an error event.
func (s *SSEWriter) WriteError(status int, message string) {
	s.WriteEvent(eventError, map[string]any{"status": status, "error": message}) //nolint:errcheck
}

// WriteComplete ends the stream with the full turn response.
func (s *SSEWriter) WriteComplete(resp *types.TurnResponse) {
	s.WriteEvent(eventComplete, resp) //nolint:errcheck
}

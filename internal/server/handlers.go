package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/rendering"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// maxBodyBytes bounds request bodies; answers are short.
const maxBodyBytes = 16 << 10

// ToggleResponse is returned after an action item is toggled.
type ToggleResponse struct {
	ActionPlan *types.ActionPlan `json:"action_plan"`
	Completed  int               `json:"completed"`
	Total      int               `json:"total"`
}

// decodeJSON reads a JSON body into dst. An empty body is allowed when
// optional is set.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func withSession(r *http.Request) (*http.Request, string) {
	id := r.PathValue("id")
	return r.WithContext(observability.WithSessionID(r.Context(), id)), id
}

// handleCreateSession starts a new interview
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSessionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.service.Start(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+view.Session.ID)
	s.jsonResponse(w, r, http.StatusCreated, view)
}

// handleGetSession returns the snapshot and the question awaiting an answer
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	r, id := withSession(r)
	view, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, view)
}

func (s *Server) decodeResponse(r *http.Request) (types.RespondRequest, error) {
	var req types.RespondRequest
	if err := decodeJSON(r, &req, false); err != nil {
		return req, err
	}
	req.Trim()
	if err := req.Validate(); err != nil {
		return req, &ErrValidation{Field: "response", Message: err.Error()}
	}
	return req, nil
}

// handleRespond runs one turn and returns everything it appended
func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	r, id := withSession(r)
	req, err := s.decodeResponse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.service.Respond(r.Context(), id, req, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, resp)
}

// handleRespondStream runs one turn and streams typing indicators, messages,
// the next question and the plan as they happen.
func (s *Server) handleRespondStream(w http.ResponseWriter, r *http.Request) {
	r, id := withSession(r)
	req, err := s.decodeResponse(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Report unknown or finished sessions with a status code, not an event.
	view, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	switch {
	case view.Session.Failed:
		s.writeError(w, r, conversation.ErrSessionFailed)
		return
	case view.Session.ConversationComplete:
		s.writeError(w, r, conversation.ErrConversationComplete)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	log := observability.LoggerFromContext(r.Context())
	resp, err := s.service.Respond(r.Context(), id, req, func(u conversation.Update) {
		if err := sse.WriteUpdate(u); err != nil {
			log.Debug("failed to write event", "kind", u.Kind, "error", err)
		}
	})
	if err != nil {
		status := HTTPStatus(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			log.Error("streamed turn failed", "error", err)
			message = "internal error"
		}
		sse.WriteError(status, message)
		return
	}
	sse.WriteComplete(resp)
}

// handleToggleAction flips an action item's completed flag
func (s *Server) handleToggleAction(w http.ResponseWriter, r *http.Request) {
	r, id := withSession(r)
	plan, err := s.service.Toggle(r.Context(), id, r.PathValue("action_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	completed, total := plan.Progress()
	s.jsonResponse(w, r, http.StatusOK, ToggleResponse{ActionPlan: plan, Completed: completed, Total: total})
}

// handleReset restarts the interview
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	r, id := withSession(r)
	view, err := s.service.Reset(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, view)
}

// handleExport renders the plan as Markdown or plain text, chosen by the
// path's extension.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r, id := withSession(r)

	format, contentType, name := rendering.FormatMarkdown, "text/markdown; charset=utf-8", "action-plan.md"
	if strings.HasSuffix(r.URL.Path, ".txt") {
		format, contentType, name = rendering.FormatText, "text/plain; charset=utf-8", "action-plan.txt"
	}

	out, err := s.service.Export(r.Context(), id, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		observability.LoggerFromContext(r.Context()).Warn("failed to write export", "error", err)
	}
}

// handleGetQuestion returns one catalog question
func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q, ok := s.service.Catalog().Question(id)
	if !ok {
		s.writeError(w, r, &ErrNotFound{Kind: "question", ID: id})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, map[string]any{
		"question":     q,
		"show_options": q.ShowOptions(),
	})
}

// handleListResources lists the resource catalog, optionally filtered by
// category (?category=benefits).
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	resources := s.service.Catalog().Resources()
	if category != "" {
		filtered := resources[:0]
		for _, res := range resources {
			if string(res.Category) == category {
				filtered = append(filtered, res)
			}
		}
		resources = filtered
	}
	s.jsonResponse(w, r, http.StatusOK, map[string]any{
		"resources": resources,
		"count":     len(resources),
	})
}

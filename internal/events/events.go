// Package events publishes interview lifecycle events. Events carry only the
// session ID, step and category; free-text answers are never published.
package events

import (
	"context"
	"sync"
	"time"
)

// Type names a lifecycle event.
type Type string

// Lifecycle events.
const (
	SessionStarted Type = "session_started"
	PlanGenerated  Type = "plan_generated"
	PlanFailed     Type = "plan_failed"
	SessionReset   Type = "session_reset"
	ItemToggled    Type = "action_item_toggled"
)

// Event is one lifecycle record.
type Event struct {
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id"`
	Step      string    `json:"step,omitempty"`
	Category  string    `json:"category,omitempty"`
	PlanID    string    `json:"plan_id,omitempty"`
	ItemID    string    `json:"item_id,omitempty"`
	Completed *bool     `json:"completed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

// Close implements Publisher.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the types of the recorded events in order.
func (r *Recorder) Types() []Type {
	var out []Type
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}

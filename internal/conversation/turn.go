package conversation

import (
	"context"

	"github.com/jonathan/unemployment-navigator/internal/session"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// UpdateKind names a streamed turn update.
type UpdateKind string

// Update kinds.
const (
	UpdateTyping   UpdateKind = "typing"
	UpdateMessage  UpdateKind = "message"
	UpdateQuestion UpdateKind = "question"
	UpdatePlan     UpdateKind = "plan"
)

// Update is one observable change during a turn.
type Update struct {
	Kind        UpdateKind         `json:"kind"`
	Typing      bool               `json:"typing,omitempty"`
	Message     *types.ChatMessage `json:"message,omitempty"`
	Question    *types.Question    `json:"question,omitempty"`
	ShowOptions bool               `json:"show_options,omitempty"`
	Plan        *types.ActionPlan  `json:"plan,omitempty"`
}

// Observer receives updates while a turn runs.
type Observer func(Update)

// turn collects the messages appended during one Respond call.
type turn struct {
	ctx      context.Context
	st       *session.State
	pacer    Pacer
	observe  Observer
	messages []types.ChatMessage
}

func (t *turn) emit(u Update) {
	if t.observe != nil {
		t.observe(u)
	}
}

func (t *turn) pause(factor float64) {
	t.pacer.Wait(t.ctx, factor)
}

func (t *turn) say(content string, sender types.Sender, msgType types.MessageType) {
	msg := t.st.AppendMessage(content, sender, msgType)
	t.messages = append(t.messages, msg)
	t.emit(Update{Kind: UpdateMessage, Message: &msg})
}

// typeOut shows the typing indicator for a while, then posts a bot message.
func (t *turn) typeOut(factor float64, content string, msgType types.MessageType) {
	t.st.SetTyping(true)
	t.emit(Update{Kind: UpdateTyping, Typing: true})
	t.pause(factor)
	t.st.SetTyping(false)
	t.emit(Update{Kind: UpdateTyping, Typing: false})
	t.say(content, types.SenderBot, msgType)
}

func (t *turn) response(next *types.Question) *types.TurnResponse {
	return &types.TurnResponse{
		Session:      t.st.Snapshot(),
		Messages:     t.messages,
		NextQuestion: next,
		ShowOptions:  next.ShowOptions(),
		ActionPlan:   t.st.Plan(),
	}
}

// Package tui is the terminal front end for an interview. It drives a
// conversation.Service in-process and renders the transcript, the current
// question and, once the interview is over, the action plan checklist.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	listHeight    = 10
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

type (
	updateMsg   conversation.Update
	turnDoneMsg struct {
		resp *types.TurnResponse
		err  error
	}
	toggledMsg struct {
		plan *types.ActionPlan
		err  error
	}
	resetMsg struct {
		view *conversation.View
		err  error
	}
)

// optionItem is a selectable answer shown in the option list.
type optionItem struct {
	opt types.Option
}

func (i optionItem) Title() string       { return i.opt.Label }
func (i optionItem) Description() string { return "" }
func (i optionItem) FilterValue() string { return i.opt.Label }

// planItem is one action item in the plan checklist.
type planItem struct {
	item types.ActionItem
}

func (i planItem) Title() string {
	mark := "[ ]"
	if i.item.Completed {
		mark = "[x]"
	}
	return mark + " " + i.item.Title
}

func (i planItem) Description() string {
	desc := strings.ReplaceAll(string(i.item.Priority), "_", " ")
	if i.item.TimeEstimate != "" {
		desc += " · " + i.item.TimeEstimate
	}
	return desc
}

func (i planItem) FilterValue() string { return i.item.Title }

// Chat is the bubbletea model for one session.
type Chat struct {
	ctx       context.Context
	cancel    context.CancelFunc
	service   *conversation.Service
	sessionID string

	messages    []types.ChatMessage
	question    *types.Question
	showOptions bool
	plan        *types.ActionPlan
	complete    bool
	failed      bool
	typing      bool
	busy        bool
	status      string

	input      textinput.Model
	options    list.Model
	checklist  list.Model
	transcript viewport.Model
	width      int
	height     int
	updates    chan tea.Msg
}

// ChatOption customizes a Chat.
type ChatOption func(*Chat)

// WithSize sets the initial terminal size. The program's WindowSizeMsg
// overrides it.
func WithSize(width, height int) ChatOption {
	return func(c *Chat) {
		c.width = width
		c.height = height
	}
}

// NewChat builds the model for an opened session.
func NewChat(ctx context.Context, service *conversation.Service, view *conversation.View, opts ...ChatOption) *Chat {
	ctx, cancel := context.WithCancel(ctx)

	input := textinput.New()
	input.CharLimit = 2000
	input.Focus()

	options := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	options.SetShowStatusBar(false)
	options.SetShowHelp(false)
	options.SetFilteringEnabled(false)
	options.Title = "Choose one"

	checklist := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	checklist.SetShowStatusBar(false)
	checklist.SetShowHelp(false)
	checklist.SetFilteringEnabled(false)

	c := &Chat{
		ctx:        ctx,
		cancel:     cancel,
		service:    service,
		sessionID:  view.Session.ID,
		input:      input,
		options:    options,
		checklist:  checklist,
		transcript: viewport.New(defaultWidth, defaultHeight),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.applyView(view)
	c.resize()
	return c
}

// SessionID returns the ID of the session the model drives.
func (c *Chat) SessionID() string {
	return c.sessionID
}

func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.resize()
		return c, nil

	case updateMsg:
		c.applyUpdate(conversation.Update(msg))
		return c, c.waitForUpdate()

	case turnDoneMsg:
		c.busy = false
		c.typing = false
		c.updates = nil
		if msg.err != nil {
			c.status = msg.err.Error()
			if errors.Is(msg.err, conversation.ErrSessionFailed) {
				c.failed = true
			}
			return c, nil
		}
		c.status = ""
		c.applySession(msg.resp.Session)
		c.question = msg.resp.NextQuestion
		c.showOptions = msg.resp.ShowOptions
		c.refreshOptions()
		return c, nil

	case toggledMsg:
		c.busy = false
		if msg.err != nil {
			c.status = msg.err.Error()
			return c, nil
		}
		c.plan = msg.plan
		c.refreshChecklist()
		return c, nil

	case resetMsg:
		c.busy = false
		if msg.err != nil {
			c.status = msg.err.Error()
			return c, nil
		}
		c.status = ""
		c.applyView(msg.view)
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c *Chat) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return c.quit()
	}
	if c.busy {
		return c, nil
	}

	switch {
	case c.failed || c.complete:
		switch key {
		case "q", "esc":
			return c.quit()
		case "r":
			return c, c.reset()
		case "enter", " ":
			if item, ok := c.checklist.SelectedItem().(planItem); ok {
				return c, c.toggle(item.item.ID)
			}
			return c, nil
		}
		var cmd tea.Cmd
		c.checklist, cmd = c.checklist.Update(msg)
		return c, cmd

	case c.showOptions:
		// Arrows move through the options; everything else is typing, so a
		// free-text answer is still possible.
		switch key {
		case "esc":
			return c.quit()
		case "up", "down":
			var cmd tea.Cmd
			c.options, cmd = c.options.Update(msg)
			return c, cmd
		case "enter":
			if text := strings.TrimSpace(c.input.Value()); text != "" {
				c.input.Reset()
				return c, c.submit(text, "")
			}
			if item, ok := c.options.SelectedItem().(optionItem); ok {
				return c, c.submit(item.opt.Value, item.opt.Label)
			}
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd

	default:
		switch key {
		case "esc":
			return c.quit()
		case "enter":
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			c.input.Reset()
			return c, c.submit(text, "")
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
}

func (c *Chat) quit() (tea.Model, tea.Cmd) {
	c.cancel()
	return c, tea.Quit
}

// submit runs a turn in the background. Updates arrive one at a time through
// c.updates so the transcript fills in as the turn progresses.
func (c *Chat) submit(value, label string) tea.Cmd {
	c.busy = true
	c.status = ""
	ch := make(chan tea.Msg)
	c.updates = ch
	ctx := c.ctx
	req := types.RespondRequest{Response: value, Label: label}

	go func() {
		defer close(ch)
		send := func(m tea.Msg) {
			select {
			case ch <- m:
			case <-ctx.Done():
			}
		}
		resp, err := c.service.Respond(ctx, c.sessionID, req, func(u conversation.Update) {
			send(updateMsg(u))
		})
		send(turnDoneMsg{resp: resp, err: err})
	}()
	return c.waitForUpdate()
}

func (c *Chat) waitForUpdate() tea.Cmd {
	ch := c.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (c *Chat) toggle(itemID string) tea.Cmd {
	c.busy = true
	ctx, id := c.ctx, c.sessionID
	return func() tea.Msg {
		plan, err := c.service.Toggle(ctx, id, itemID)
		return toggledMsg{plan: plan, err: err}
	}
}

func (c *Chat) reset() tea.Cmd {
	c.busy = true
	ctx, id := c.ctx, c.sessionID
	return func() tea.Msg {
		view, err := c.service.Reset(ctx, id)
		return resetMsg{view: view, err: err}
	}
}

func (c *Chat) applyUpdate(u conversation.Update) {
	switch u.Kind {
	case conversation.UpdateTyping:
		c.typing = u.Typing
	case conversation.UpdateMessage:
		if u.Message != nil {
			c.messages = append(c.messages, *u.Message)
		}
	case conversation.UpdateQuestion:
		c.question = u.Question
		c.showOptions = u.ShowOptions
		c.refreshOptions()
	case conversation.UpdatePlan:
		c.plan = u.Plan
		c.refreshChecklist()
	}
	c.refreshTranscript()
}

func (c *Chat) applyView(view *conversation.View) {
	c.applySession(view.Session)
	c.question = view.Question
	c.showOptions = view.ShowOptions
	c.refreshOptions()
}

func (c *Chat) applySession(s *types.Session) {
	if s == nil {
		return
	}
	c.messages = append([]types.ChatMessage(nil), s.Messages...)
	c.plan = s.ActionPlan
	c.complete = s.ConversationComplete
	c.failed = s.Failed
	c.typing = s.IsTyping
	if c.complete || c.failed {
		c.question = nil
		c.showOptions = false
	}
	c.refreshChecklist()
	c.refreshTranscript()
}

func (c *Chat) refreshOptions() {
	c.refreshPlaceholder()
	if !c.showOptions || c.question == nil {
		c.options.SetItems(nil)
		return
	}
	items := make([]list.Item, len(c.question.Options))
	for i, opt := range c.question.Options {
		items[i] = optionItem{opt: opt}
	}
	c.options.SetItems(items)
	c.options.Select(0)
}

func (c *Chat) refreshPlaceholder() {
	if c.showOptions {
		c.input.Placeholder = "Choose an option above or describe your situation in your own words"
		return
	}
	c.input.Placeholder = "Type your answer and press enter"
}

func (c *Chat) refreshChecklist() {
	if c.plan == nil {
		c.checklist.SetItems(nil)
		return
	}
	selected := c.checklist.Index()
	var items []list.Item
	for _, band := range c.plan.Bands() {
		for _, item := range band {
			items = append(items, planItem{item: item})
		}
	}
	c.checklist.SetItems(items)
	if selected < len(items) {
		c.checklist.Select(selected)
	}
	done, total := c.plan.Progress()
	c.checklist.Title = fmt.Sprintf("%s (%d/%d done)", c.plan.Title, done, total)
}

func (c *Chat) refreshTranscript() {
	width := c.width - 4
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for i, m := range c.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.Sender == types.SenderUser {
			b.WriteString(userStyle.Width(width).Align(lipgloss.Right).Render(m.Content))
		} else {
			b.WriteString(botStyle.Width(width).Render(m.Content))
		}
	}
	if c.typing {
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("typing…"))
	}
	c.transcript.SetContent(b.String())
	c.transcript.GotoBottom()
}

func (c *Chat) resize() {
	width := c.width - 2
	c.input.Width = width - 4
	c.options.SetSize(width, listHeight)
	c.checklist.SetSize(width, listHeight)
	c.transcript.Width = width
	// Header, panel border, option list, input line and help.
	h := c.height - listHeight - 7
	if h < 5 {
		h = 5
	}
	c.transcript.Height = h
	c.refreshTranscript()
}

func (c *Chat) View() string {
	header := titleStyle.Render("Unemployment Navigator")

	var prompt, help string
	switch {
	case c.failed:
		prompt = errorStyle.Render("Something went wrong building your plan.")
		help = "r restart · q quit"
	case c.complete:
		prompt = c.checklist.View()
		help = "↑/↓ move · enter toggle · r restart · q quit"
	case c.showOptions:
		prompt = lipgloss.JoinVertical(lipgloss.Left, c.options.View(), c.input.View())
		help = "↑/↓ move · enter select or send · esc quit"
	default:
		prompt = c.input.View()
		help = "enter send · esc quit"
	}

	parts := []string{header, panelStyle.Render(c.transcript.View()), prompt}
	if c.status != "" {
		parts = append(parts, errorStyle.Render(c.status))
	}
	parts = append(parts, helpStyle.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

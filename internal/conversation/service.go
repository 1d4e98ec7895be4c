// Package conversation runs the interview turn loop: it records each answer,
// replies, asks the next question and, when the questions run out, classifies
// the profile and installs the action plan.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/unemployment-navigator/internal/catalog"
	"github.com/jonathan/unemployment-navigator/internal/eligibility"
	"github.com/jonathan/unemployment-navigator/internal/events"
	"github.com/jonathan/unemployment-navigator/internal/interview"
	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/planner"
	"github.com/jonathan/unemployment-navigator/internal/rendering"
	"github.com/jonathan/unemployment-navigator/internal/session"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// Pacing, as multiples of Pacer.Delay.
const (
	paceReply         = 1.0
	paceBeforeNext    = 0.33
	paceQuestion      = 0.53
	paceBeforeClosing = 0.67
	paceClosing       = 1.33
	paceBeforePlan    = 1.0
)

const (
	defaultIdleTTL = 30 * time.Minute
	sweepInterval  = time.Minute
)

// Planner turns a category and profile into an action plan.
type Planner interface {
	Assemble(category types.Category, profile types.UserProfile) (*types.ActionPlan, error)
}

// Options configures a Service.
type Options struct {
	// Planner defaults to a planner.Engine over the catalog.
	Planner Planner
	// Store loads sessions that are not in memory. Defaults to a MemoryStore.
	Store session.Store
	// Persister receives every snapshot. Defaults to saving synchronously to
	// Store and logging failures.
	Persister session.Persister
	// Publisher receives lifecycle events. Defaults to events.Noop.
	Publisher events.Publisher
	Pacer     Pacer
	// IdleTTL is how long an untouched session stays in memory.
	IdleTTL time.Duration
	// SessionOptions are passed to every session.State (clocks, IDs).
	SessionOptions []session.Option
	Now            func() time.Time
}

// View is a session as presented to a client.
type View struct {
	Session     *types.Session  `json:"session"`
	Question    *types.Question `json:"question,omitempty"`
	ShowOptions bool            `json:"show_options"`
}

// Service runs interviews. It is safe for concurrent use; turns on the same
// session are serialized.
type Service struct {
	catalog   *catalog.Catalog
	machine   *interview.Machine
	planner   Planner
	store     session.Store
	persister session.Persister
	publisher events.Publisher
	pacer     Pacer
	idleTTL   time.Duration
	stateOpts []session.Option
	now       func() time.Time
	logger    *slog.Logger

	mu        sync.Mutex
	live      map[string]*entry
	lastSweep time.Time
}

type entry struct {
	id       string
	mu       sync.Mutex
	state    *session.State
	refs     int
	lastUsed time.Time
}

// New creates a Service over cat. The catalog must contain every question,
// template and resource the interview and planner depend on.
func New(cat *catalog.Catalog, opts Options) (*Service, error) {
	if err := cat.Require(Requirements()); err != nil {
		return nil, err
	}

	s := &Service{
		catalog:   cat,
		machine:   interview.NewMachine(cat),
		planner:   opts.Planner,
		store:     opts.Store,
		persister: opts.Persister,
		publisher: opts.Publisher,
		pacer:     opts.Pacer,
		idleTTL:   opts.IdleTTL,
		stateOpts: opts.SessionOptions,
		now:       opts.Now,
		logger:    observability.WithFields("component", "conversation"),
		live:      make(map[string]*entry),
	}
	if s.planner == nil {
		s.planner = planner.NewEngine(cat)
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.persister == nil {
		s.persister = session.PersisterFunc(s.saveNow)
	}
	if s.publisher == nil {
		s.publisher = events.Noop{}
	}
	if s.idleTTL <= 0 {
		s.idleTTL = defaultIdleTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Requirements lists every catalog entry the service needs.
func Requirements() catalog.Requirements {
	return interview.Requirements().Merge(planner.Requirements())
}

// Catalog returns the catalog the service runs on.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) saveNow(snapshot *types.Session) {
	if err := s.store.Save(context.Background(), snapshot); err != nil {
		s.logger.Warn("failed to persist session", "session_id", snapshot.ID, "error", err)
	}
}

func (s *Service) stateOptions() []session.Option {
	return append(append([]session.Option(nil), s.stateOpts...), session.WithPersister(s.persister))
}

// acquire locks the session entry for id, loading it from the store if it
// is not in memory. With create set, a missing session is started.
func (s *Service) acquire(ctx context.Context, id string, create bool) (*entry, bool, error) {
	now := s.now()

	s.mu.Lock()
	s.sweepLocked(now)
	e, ok := s.live[id]
	if !ok {
		e = &entry{id: id}
		s.live[id] = e
	}
	e.refs++
	e.lastUsed = now
	s.mu.Unlock()

	e.mu.Lock()
	if e.state != nil {
		return e, false, nil
	}

	snapshot, err := s.store.Load(ctx, id)
	if err != nil && !errors.Is(err, session.ErrCorrupt) {
		s.release(e)
		return nil, false, err
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("discarding corrupt session", "session_id", id, "error", err)
	}

	if snapshot != nil {
		e.state = session.Restore(snapshot, s.stateOptions()...)
		return e, false, nil
	}
	if !create && err == nil {
		s.release(e)
		return nil, false, &NotFoundError{SessionID: id}
	}
	e.state = session.New(id, s.stateOptions()...)
	s.open(e.state)
	s.publish(ctx, events.Event{Type: events.SessionStarted, SessionID: id, Step: string(e.state.Step())})
	return e, true, nil
}

func (s *Service) release(e *entry) {
	drop := e.state == nil
	e.mu.Unlock()

	s.mu.Lock()
	e.refs--
	if drop && e.refs == 0 && s.live[e.id] == e {
		delete(s.live, e.id)
	}
	s.mu.Unlock()
}

// sweepLocked evicts sessions idle for longer than idleTTL. Their latest
// snapshot is already with the persister.
func (s *Service) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for id, e := range s.live {
		if e.refs == 0 && now.Sub(e.lastUsed) > s.idleTTL {
			delete(s.live, id)
		}
	}
}

// open greets a new or reset session.
func (s *Service) open(st *session.State) {
	if q, ok := s.machine.Opening(); ok {
		st.AppendMessage(q.Text, types.SenderBot, "")
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	e.Timestamp = s.now().UTC()
	if err := s.publisher.Publish(ctx, e); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to publish event", "type", e.Type, "error", err)
	}
}

func (s *Service) view(st *session.State) *View {
	v := &View{Session: st.Snapshot()}
	if st.Complete() || st.Failed() {
		return v
	}
	if q, ok := s.machine.Pending(st.Step(), st.Profile()); ok {
		v.Question = q
		v.ShowOptions = q.ShowOptions()
	}
	return v
}

// Start creates a session. An empty id gets a fresh UUID.
func (s *Service) Start(ctx context.Context, req types.CreateSessionRequest) (*View, error) {
	if err := req.Validate(); err != nil {
		return nil, &InvalidInputError{Message: "session_id", Cause: err}
	}
	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	e, created, err := s.acquire(ctx, id, true)
	if err != nil {
		return nil, err
	}
	defer s.release(e)
	if !created {
		return nil, &ConflictError{SessionID: id}
	}
	return s.view(e.state), nil
}

// Open returns the session with the given id, starting it if needed.
func (s *Service) Open(ctx context.Context, id string) (*View, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, &InvalidInputError{Message: "session id", Cause: err}
	}
	e, _, err := s.acquire(ctx, id, true)
	if err != nil {
		return nil, err
	}
	defer s.release(e)
	return s.view(e.state), nil
}

// Get returns the session with the given id.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	e, _, err := s.acquire(ctx, id, false)
	if err != nil {
		return nil, err
	}
	defer s.release(e)
	return s.view(e.state), nil
}

// Respond runs one turn. observe, if not nil, is called for every update as
// it happens.
func (s *Service) Respond(ctx context.Context, id string, req types.RespondRequest, observe Observer) (*types.TurnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &InvalidInputError{Message: "response", Cause: err}
	}

	e, _, err := s.acquire(ctx, id, false)
	if err != nil {
		return nil, err
	}
	defer s.release(e)

	st := e.state
	switch {
	case st.Failed():
		return nil, ErrSessionFailed
	case st.Complete():
		return nil, ErrConversationComplete
	}

	ctx = observability.WithSessionID(ctx, id)
	t := &turn{ctx: ctx, st: st, pacer: s.pacer, observe: observe}
	log := observability.LoggerFromContext(ctx)

	shown := req.Label
	if shown == "" {
		shown = req.Response
	}
	t.say(shown, types.SenderUser, types.MessageText)

	from := st.Step()
	tr := s.machine.Advance(from, req.Response, st.Profile())
	st.UpdateProfile(tr.Profile)
	st.SetStep(tr.Next)
	log.Debug("turn processed", "from", from, "to", tr.Next, "done", tr.Done())

	t.typeOut(paceReply, tr.Reply, "")

	if !tr.Done() {
		t.pause(paceBeforeNext)
		t.typeOut(paceQuestion, tr.Question.Text, types.MessageQuestion)
		t.emit(Update{Kind: UpdateQuestion, Question: tr.Question, ShowOptions: tr.Question.ShowOptions()})
		return t.response(tr.Question), nil
	}

	t.pause(paceBeforeClosing)
	t.typeOut(paceClosing, interview.MustGet(interview.ReplyClosing), "")
	t.pause(paceBeforePlan)

	category := eligibility.Classify(tr.Profile)
	plan, err := s.planner.Assemble(category, tr.Profile)
	if err != nil {
		log.Error("failed to assemble action plan", "category", category, "error", err)
		st.MarkFailed()
		t.say(interview.MustGet(interview.ReplyPlanFailed), types.SenderBot, types.MessageText)
		s.publish(ctx, events.Event{Type: events.PlanFailed, SessionID: id, Category: string(category)})
		return t.response(nil), nil
	}

	st.InstallPlan(plan)
	t.say(interview.MustGet(interview.ReplyPlanReady), types.SenderBot, types.MessageActionPlan)
	t.emit(Update{Kind: UpdatePlan, Plan: plan})
	log.Info("action plan installed", "category", category, "plan_id", plan.ID)
	s.publish(ctx, events.Event{Type: events.PlanGenerated, SessionID: id, Category: string(category), PlanID: plan.ID})
	return t.response(nil), nil
}

// Toggle flips the completed flag of an action item and returns the plan.
// Unknown item IDs leave the plan unchanged.
func (s *Service) Toggle(ctx context.Context, id, itemID string) (*types.ActionPlan, error) {
	e, _, err := s.acquire(ctx, id, false)
	if err != nil {
		return nil, err
	}
	defer s.release(e)

	st := e.state
	if st.Plan() == nil {
		return nil, ErrNoActionPlan
	}
	if st.ToggleActionItem(itemID) {
		completed := st.Plan().FindItem(itemID).Completed
		s.publish(ctx, events.Event{Type: events.ItemToggled, SessionID: id, ItemID: itemID, Completed: &completed})
	}
	return st.Plan(), nil
}

// Reset restarts the interview, keeping the session ID.
func (s *Service) Reset(ctx context.Context, id string) (*View, error) {
	e, _, err := s.acquire(ctx, id, false)
	if err != nil {
		return nil, err
	}
	defer s.release(e)

	e.state.Reset()
	s.publish(ctx, events.Event{Type: events.SessionReset, SessionID: id})
	s.open(e.state)
	return s.view(e.state), nil
}

// Export renders the session's plan.
func (s *Service) Export(ctx context.Context, id string, format rendering.Format) (string, error) {
	e, _, err := s.acquire(ctx, id, false)
	if err != nil {
		return "", err
	}
	defer s.release(e)

	plan := e.state.Plan()
	if plan == nil {
		return "", ErrNoActionPlan
	}
	return rendering.Render(plan, format)
}

// Forget drops the in-memory copy of a session and deletes it from the store.
func (s *Service) Forget(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	return s.store.Delete(ctx, id)
}

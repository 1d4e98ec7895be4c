package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// StorePersister saves snapshots to a Store in the background. Pending
// snapshots are coalesced per session so only the latest is written, and
// write order per session follows mutation order. Save errors are logged.
type StorePersister struct {
	store   Store
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*types.Session
	order   []string
	wake    chan struct{}
	idle    *sync.Cond
	busy    bool
	closed  bool
	done    chan struct{}
}

// NewStorePersister starts a background writer for store. Each save is
// bounded by timeout (zero means no limit).
func NewStorePersister(store Store, timeout time.Duration) *StorePersister {
	p := &StorePersister{
		store:   store,
		timeout: timeout,
		logger:  observability.WithFields("component", "session_persister"),
		pending: make(map[string]*types.Session),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Persist implements Persister.
func (p *StorePersister) Persist(snapshot *types.Session) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if _, queued := p.pending[snapshot.ID]; !queued {
		p.order = append(p.order, snapshot.ID)
	}
	p.pending[snapshot.ID] = snapshot
	select {
	case p.wake <- struct{}{}:
	default:
	}
	p.mu.Unlock()
}

func (p *StorePersister) run() {
	defer close(p.done)
	for range p.wake {
		for {
			p.mu.Lock()
			if len(p.order) == 0 {
				p.busy = false
				p.idle.Broadcast()
				closed := p.closed
				p.mu.Unlock()
				if closed {
					return
				}
				break
			}
			id := p.order[0]
			p.order = p.order[1:]
			snapshot := p.pending[id]
			delete(p.pending, id)
			p.busy = true
			p.mu.Unlock()

			p.save(snapshot)
		}
	}
}

func (p *StorePersister) save(snapshot *types.Session) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.store.Save(ctx, snapshot); err != nil {
		p.logger.Warn("failed to persist session", "session_id", snapshot.ID, "error", err)
	}
}

// Flush blocks until every snapshot queued so far has been written.
func (p *StorePersister) Flush() {
	p.mu.Lock()
	for len(p.order) > 0 || p.busy {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close flushes pending snapshots and stops the writer.
func (p *StorePersister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	close(p.wake)
	p.mu.Unlock()
	<-p.done
}

package poller

import (
	"context"
	"log"
	"sync"
)

// Tracker owns the pollers of runs started through the HTTP API, so that
// server-side history converges without a client keeping a session open.
type Tracker struct {
	deps Deps

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	pollers map[string]*Poller
	wg      sync.WaitGroup
}

// NewTracker creates a Tracker whose pollers all share deps.
func NewTracker(deps Deps) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{deps: deps, ctx: ctx, cancel: cancel, pollers: map[string]*Poller{}}
}

// Track starts polling runID unless it is already tracked. The poller is
// forgotten once every method is terminal.
func (t *Tracker) Track(runID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ctx.Err() != nil {
		return t.ctx.Err()
	}
	if _, ok := t.pollers[runID]; ok {
		return nil
	}

	p := New(runID, t.deps)
	if err := p.Start(t.ctx); err != nil {
		return err
	}
	t.pollers[runID] = p

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		_ = p.Wait(t.ctx)
		p.Stop()
		t.mu.Lock()
		delete(t.pollers, runID)
		t.mu.Unlock()
		log.Printf("poller.Tracker: %s no longer polled", runID)
	}()
	return nil
}

// Tracking reports whether runID currently has a live poller.
func (t *Tracker) Tracking(runID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pollers[runID]
	return ok
}

// Shutdown stops every poller and waits for their goroutines to exit.
func (t *Tracker) Shutdown() {
	t.cancel()
	t.wg.Wait()
}

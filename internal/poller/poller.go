// Package poller tracks the methods of a progressively started run until
// each one reaches a terminal status, writing every change into history.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"docbench/internal/domain"
	"docbench/internal/port"
)

// Fetcher reads the remote state of one file. A completed report carries the
// file's passages. service.FileService satisfies it.
type Fetcher interface {
	Status(ctx context.Context, fileID string, startedAt *time.Time) (*domain.FileStatusReport, error)
}

// Deps configures a Poller. Zero Interval and Timeout fall back to
// domain.PollInterval and domain.PollTimeout.
type Deps struct {
	History  port.HistoryStore
	Fetcher  Fetcher
	Clock    clockwork.Clock
	Interval time.Duration
	Timeout  time.Duration
	// OnUpdate, if set, receives the run after every merge into history.
	OnUpdate func(entry *domain.HistoryEntry)
}

// Poller runs one independent, timer-driven check loop per non-terminal
// method of a run. Loops are keyed by method name.
type Poller struct {
	runID string
	deps  Deps

	mu       sync.Mutex
	gen      int
	ctx      context.Context
	cancel   context.CancelFunc
	loops    map[string]clockwork.Timer
	started  map[string]time.Time
	passages map[string][]domain.Passage
	idle     chan struct{}
}

// New creates a Poller for runID.
func New(runID string, deps Deps) *Poller {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Interval <= 0 {
		deps.Interval = domain.PollInterval
	}
	if deps.Timeout <= 0 {
		deps.Timeout = domain.PollTimeout
	}
	idle := make(chan struct{})
	close(idle)
	return &Poller{
		runID:    runID,
		deps:     deps,
		loops:    map[string]clockwork.Timer{},
		started:  map[string]time.Time{},
		passages: map[string][]domain.Passage{},
		idle:     idle,
	}
}

// Start derives loop state from the persisted run and schedules an
// immediate check for every method that is not yet terminal. Calling Start
// after Stop resumes polling.
func (p *Poller) Start(ctx context.Context) error {
	entry, err := p.deps.History.GetByID(ctx, p.runID)
	if err != nil {
		return fmt.Errorf("poller.Start: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		p.gen++
		p.ctx, p.cancel = context.WithCancel(ctx)
	}
	for _, m := range entry.Methods {
		if m.Status.IsTerminal() {
			continue
		}
		if m.FileID == "" {
			log.Printf("poller: %s/%s has no file id, not polling", p.runID, m.Method)
			continue
		}
		p.scheduleLocked(m.Method, 0)
	}
	return nil
}

// Stop cancels every pending check. In-flight checks finish without
// rescheduling.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	for method, t := range p.loops {
		t.Stop()
		delete(p.loops, method)
	}
	p.markIdleLocked()
}

// Wait blocks until no loops remain or ctx ends.
func (p *Poller) Wait(ctx context.Context) error {
	p.mu.Lock()
	idle := p.idle
	p.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Active returns the number of methods still being polled.
func (p *Poller) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.loops)
}

// Passages returns the cached passages of a completed method.
func (p *Poller) Passages(method string) []domain.Passage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passages[method]
}

// scheduleLocked starts a loop for method unless one is already in flight.
func (p *Poller) scheduleLocked(method string, delay time.Duration) {
	if _, running := p.loops[method]; running {
		return
	}
	if len(p.loops) == 0 {
		p.idle = make(chan struct{})
	}
	p.loops[method] = p.afterLocked(method, delay)
}

func (p *Poller) afterLocked(method string, delay time.Duration) clockwork.Timer {
	gen := p.gen
	return p.deps.Clock.AfterFunc(delay, func() { p.check(gen, method) })
}

// reschedule replaces the fired timer of a running loop.
func (p *Poller) reschedule(gen int, method string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.loops[method] = p.afterLocked(method, p.deps.Interval)
}

// finish ends the loop for method.
func (p *Poller) finish(gen int, method string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	delete(p.loops, method)
	if len(p.loops) == 0 {
		p.markIdleLocked()
	}
}

func (p *Poller) markIdleLocked() {
	select {
	case <-p.idle:
	default:
		close(p.idle)
	}
}

// loopContext returns the context for gen, or nil when gen is stale.
func (p *Poller) loopContext(gen int) context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.ctx == nil {
		return nil
	}
	return p.ctx
}

// startedAt returns the method's persisted start time, falling back to the
// first time this poller saw the method.
func (p *Poller) startedAt(m *domain.MethodResult) time.Time {
	if m.StartedAt != nil {
		return *m.StartedAt
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.started[m.Method]
	if !ok {
		t = p.deps.Clock.Now()
		p.started[m.Method] = t
	}
	return t
}

func (p *Poller) check(gen int, method string) {
	ctx := p.loopContext(gen)
	if ctx == nil || ctx.Err() != nil {
		return
	}

	entry, err := p.deps.History.GetByID(ctx, p.runID)
	if err != nil {
		log.Printf("poller: %s/%s reading history: %v", p.runID, method, err)
		p.reschedule(gen, method)
		return
	}
	m := entry.Method(method)
	if m == nil || m.Status.IsTerminal() || m.FileID == "" {
		p.finish(gen, method)
		return
	}

	started := p.startedAt(m)
	elapsed := p.deps.Clock.Now().Sub(started)
	if elapsed > p.deps.Timeout {
		status := domain.StatusTimeout
		reason := fmt.Sprintf("Timed out after %s", p.deps.Timeout)
		ms := elapsed.Milliseconds()
		log.Printf("poller: %s/%s timed out after %s", p.runID, method, elapsed)
		p.settle(gen, method, p.merge(gen, method, domain.MethodPatch{Status: &status, FailedReason: &reason, ProcessingTimeMs: &ms}))
		return
	}

	report, err := p.deps.Fetcher.Status(ctx, m.FileID, &started)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("poller: %s/%s status check failed: %v", p.runID, method, err)
			p.reschedule(gen, method)
		}
		return
	}

	if !report.Status.IsTerminal() {
		status := report.Status
		err := p.merge(gen, method, domain.MethodPatch{Status: &status})
		switch {
		case errors.Is(err, errStale):
		case errors.Is(err, domain.ErrMethodFinalized):
			p.finish(gen, method)
		default:
			p.reschedule(gen, method)
		}
		return
	}

	if err := p.merge(gen, method, terminalPatch(report)); err != nil {
		p.settle(gen, method, err)
		return
	}
	if report.Status == domain.StatusIndexingCompleted {
		p.mu.Lock()
		p.passages[method] = report.Passages
		p.mu.Unlock()
	}
	p.finish(gen, method)
}

var errStale = errors.New("poller loop stopped")

// merge writes patch into history and hands the updated run to OnUpdate.
func (p *Poller) merge(gen int, method string, patch domain.MethodPatch) error {
	ctx := p.loopContext(gen)
	if ctx == nil {
		return errStale
	}
	entry, err := p.deps.History.MergeMethodUpdate(ctx, p.runID, method, patch)
	if err != nil {
		if !errors.Is(err, domain.ErrMethodFinalized) {
			log.Printf("poller: %s/%s merging update: %v", p.runID, method, err)
		}
		return err
	}
	if p.deps.OnUpdate != nil {
		p.deps.OnUpdate(entry)
	}
	return nil
}

// settle ends the loop after a final write, or retries a write that failed
// for a reason other than the method already being final.
func (p *Poller) settle(gen int, method string, err error) {
	switch {
	case err == nil, errors.Is(err, domain.ErrMethodFinalized):
		p.finish(gen, method)
	case errors.Is(err, errStale):
	default:
		p.reschedule(gen, method)
	}
}

func terminalPatch(report *domain.FileStatusReport) domain.MethodPatch {
	status := report.Status
	reason := report.FailedReason
	patch := domain.MethodPatch{
		Status:           &status,
		FailedReason:     &reason,
		ProcessingTimeMs: report.ProcessingTimeMs,
	}
	if status == domain.StatusIndexingCompleted {
		breakdown := domain.MetaBreakdown{}
		if report.MetaBreakdown != nil {
			breakdown = *report.MetaBreakdown
		}
		patch.Metrics = &domain.Metrics{
			PassageCount:      report.PassageCount,
			ContentCharsTotal: report.ContentCharsTotal,
			MetaBreakdown:     breakdown,
			SampleText:        report.SampleText,
		}
	}
	return patch
}

package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"crypto-dashboard/internal/dashboard"
	"crypto-dashboard/internal/domain"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HistoryFetcher loads the price history for one asset and range.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, asset domain.Asset, rng domain.Range) (*domain.PriceHistory, error)
}

// PricePoller keeps one dashboard's state fresh. It fetches on activation,
// on every selection change and on a fixed cadence, and is the only writer
// of the state's history-derived fields.
//
// Every trigger supersedes the previous one: its in-flight request is
// cancelled, and a response that arrives anyway is discarded. At most one
// refresh timer is pending at a time.
type PricePoller struct {
	tracer     trace.Tracer
	fetcher    HistoryFetcher
	state      *dashboard.State
	logger     *log.Logger
	interval   time.Duration
	flashDelay time.Duration
	sched      Scheduler
	now        func() time.Time

	mu         sync.Mutex
	active     bool
	stopped    bool
	ctx        context.Context
	cancel     context.CancelFunc
	cycle      uint64
	inflight   context.CancelFunc
	timer      Timer
	timerSeq   uint64
	flashTimer Timer
	wg         sync.WaitGroup

	pubMu   sync.Mutex
	updates chan dashboard.View
}

// PollerOption customises a PricePoller.
type PollerOption func(*PricePoller)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) PollerOption {
	return func(p *PricePoller) { p.sched = s }
}

// WithClock replaces the source of "last updated" timestamps.
func WithClock(now func() time.Time) PollerOption {
	return func(p *PricePoller) { p.now = now }
}

func NewPricePoller(
	tracer trace.Tracer,
	fetcher HistoryFetcher,
	state *dashboard.State,
	logger *log.Logger,
	interval time.Duration,
	flashDelay time.Duration,
	opts ...PollerOption,
) *PricePoller {
	p := &PricePoller{
		tracer:     tracer,
		fetcher:    fetcher,
		state:      state,
		logger:     logger,
		interval:   interval,
		flashDelay: flashDelay,
		sched:      ClockScheduler,
		now:        time.Now,
		updates:    make(chan dashboard.View, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Updates delivers state snapshots. Only the latest unread snapshot is kept.
func (p *PricePoller) Updates() <-chan dashboard.View {
	return p.updates
}

// State returns the state the poller writes to.
func (p *PricePoller) State() *dashboard.State {
	return p.state
}

// Snapshot returns the current view of the dashboard state.
func (p *PricePoller) Snapshot() dashboard.View {
	return p.state.Snapshot()
}

// Start activates the poller and issues the first fetch. The poller stops
// when ctx is cancelled or Stop is called; it cannot be restarted.
func (p *PricePoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.active || p.stopped {
		p.mu.Unlock()
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.active = true
	p.logger.Debug("price poller starting", "interval", p.interval)
	p.triggerLocked(p.state.Generation())
	done := p.ctx.Done()
	p.mu.Unlock()

	p.publish()

	go func() {
		<-done
		p.Stop()
	}()
}

// Stop cancels the pending timer and any in-flight request. Safe to call
// more than once.
func (p *PricePoller) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	p.stopped = true
	p.stopTimersLocked()
	if p.inflight != nil {
		p.inflight()
		p.inflight = nil
	}
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug("price poller stopped")
}

// Select switches the dashboard to asset and rng and fetches immediately.
// Selecting the current pair does nothing.
func (p *PricePoller) Select(asset domain.Asset, rng domain.Range) {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	gen, changed := p.state.Select(asset, rng)
	if !changed {
		p.mu.Unlock()
		return
	}
	p.logger.Info("selection changed", "asset", asset, "range", rng)
	p.triggerLocked(gen)
	p.mu.Unlock()

	p.publish()
}

// Refresh fetches the current selection now instead of waiting for the timer.
func (p *PricePoller) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		p.triggerLocked(p.state.Generation())
	}
}

// SetTheme records the theme on the dashboard state.
func (p *PricePoller) SetTheme(theme domain.Theme) {
	p.state.SetTheme(theme)
	p.publish()
}

func (p *PricePoller) triggerLocked(gen uint64) {
	p.stopTimersLocked()
	if p.inflight != nil {
		p.inflight()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.inflight = cancel
	p.cycle++
	p.wg.Add(1)
	go p.runCycle(ctx, p.cycle, gen)
}

func (p *PricePoller) runCycle(ctx context.Context, seq, gen uint64) {
	defer p.wg.Done()

	ctx, span := p.tracer.Start(ctx, "price-poller.cycle")
	defer span.End()

	asset, rng, ok := p.state.BeginCycle(gen)
	if !ok {
		return
	}
	span.SetAttributes(
		attribute.String("asset", string(asset)),
		attribute.String("range", string(rng)),
	)
	p.publish()

	history, err := p.fetcher.FetchHistory(ctx, asset, rng)

	p.mu.Lock()
	if !p.active || seq != p.cycle {
		p.mu.Unlock()
		span.SetAttributes(attribute.Bool("superseded", true))
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Error("price fetch failed", "asset", asset, "range", rng, "err", err)
		}
		p.state.FailCycle(gen)
	} else {
		p.state.ApplyHistory(gen, history, p.now())
	}
	p.inflight = nil
	p.armRefreshTimerLocked(gen)
	p.armFlashTimerLocked()
	p.mu.Unlock()

	p.publish()
}

func (p *PricePoller) armRefreshTimerLocked(gen uint64) {
	p.stopRefreshTimerLocked()
	p.timerSeq++
	seq := p.timerSeq
	p.timer = p.sched.AfterFunc(p.interval, func() { p.onTick(seq, gen) })
}

func (p *PricePoller) onTick(seq, gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// A timer stopped after its callback began must not trigger a fetch.
	if !p.active || seq != p.timerSeq || gen != p.state.Generation() {
		return
	}
	p.timer = nil
	p.triggerLocked(gen)
}

func (p *PricePoller) armFlashTimerLocked() {
	if p.flashTimer != nil {
		p.flashTimer.Stop()
	}
	p.flashTimer = p.sched.AfterFunc(p.flashDelay, p.endUpdating)
}

func (p *PricePoller) endUpdating() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	if !active {
		return
	}
	p.state.EndUpdating()
	p.publish()
}

func (p *PricePoller) stopRefreshTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerSeq++
}

func (p *PricePoller) stopTimersLocked() {
	p.stopRefreshTimerLocked()
	if p.flashTimer != nil {
		p.flashTimer.Stop()
		p.flashTimer = nil
	}
}

func (p *PricePoller) publish() {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	v := p.state.Snapshot()
	select {
	case p.updates <- v:
		return
	default:
	}
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- v:
	default:
	}
}

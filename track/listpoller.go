package track

import (
	"context"
	"sync"
	"time"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

// Poller cadence defaults. The list poller tightens to the active interval
// whenever the fetched page contains a job that is still in flight.
const (
	DefaultListActiveInterval = 3 * time.Second
	DefaultListIdleInterval   = 10 * time.Second
	DefaultListLimit          = 20
)

const (
	pollerList   = "list"
	pollerStatus = "status"

	cadenceActive = "active"
	cadenceIdle   = "idle"
)

const listFallbackMessage = "Failed to load meetings. Is the backend running?"

// ListPollerOptions configures a ListPoller. Zero values take the defaults
// above.
type ListPollerOptions struct {
	// Limit caps the page size requested from the backend.
	Limit int
	// StatusFilter restricts the list to one job status when non-empty.
	StatusFilter client.Status
	// ActiveInterval is the cadence while any listed job is PENDING or
	// PROCESSING; IdleInterval applies otherwise.
	ActiveInterval time.Duration
	IdleInterval   time.Duration
	Logger         logging.Logger
	Metrics        *Metrics
	// OnUpdate is invoked after every applied fetch, success or failure.
	// It runs outside the poller's lock.
	OnUpdate func()
}

// ListPoller keeps a meeting list fresh by polling the backend on an
// adaptive cadence. The list always reflects the most recent successful
// fetch; a failed fetch records an error message but never clears data the
// caller is already showing.
type ListPoller struct {
	api      API
	limit    int
	filter   client.Status
	active   time.Duration
	idle     time.Duration
	logger   logging.Logger
	metrics  *Metrics
	onUpdate func()

	mu         sync.Mutex
	running    bool
	generation int
	cancel     context.CancelFunc
	meetings   []client.Meeting
	errMsg     string
	loading    bool
	interval   time.Duration
}

// NewListPoller creates a stopped poller backed by api.
func NewListPoller(api API, opts ListPollerOptions) *ListPoller {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.ActiveInterval <= 0 {
		opts.ActiveInterval = DefaultListActiveInterval
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = DefaultListIdleInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ListPoller{
		api:      api,
		limit:    opts.Limit,
		filter:   opts.StatusFilter,
		active:   opts.ActiveInterval,
		idle:     opts.IdleInterval,
		logger:   logger,
		metrics:  opts.Metrics,
		onUpdate: opts.OnUpdate,
		interval: opts.ActiveInterval,
	}
}

// Start begins polling: one immediate fetch, then one fetch per interval.
// Each cycle waits for the previous fetch to finish before scheduling the
// next, so a slow backend slows the cadence instead of stacking requests.
// Start is a no-op while the poller is already running.
func (p *ListPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.generation++
	gen := p.generation
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.run(ctx, gen)
}

func (p *ListPoller) run(ctx context.Context, gen int) {
	for {
		interval, ok, _ := p.fetch(ctx, gen)
		if !ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// Stop halts polling. Responses from fetches already in flight are
// discarded; the last applied list remains readable.
func (p *ListPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Refresh fetches the list immediately, independent of the poll timer.
// It works whether or not the poller is running and returns the fetch
// error, if any, so callers can report it directly.
func (p *ListPoller) Refresh(ctx context.Context) error {
	p.mu.Lock()
	gen := p.generation
	p.mu.Unlock()

	_, _, err := p.fetch(ctx, gen)
	return err
}

// fetch issues one list request and applies the outcome. It reports the
// next cadence and whether this generation is still live.
func (p *ListPoller) fetch(ctx context.Context, gen int) (time.Duration, bool, error) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return 0, false, nil
	}
	p.loading = true
	p.mu.Unlock()

	p.metrics.recordPoll(pollerList)
	meetings, err := p.api.ListMeetings(ctx, client.ListOptions{
		Limit:  p.limit,
		Status: p.filter,
	})

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return 0, false, nil
	}
	p.loading = false
	if err != nil {
		p.errMsg = client.ErrorMessage(err, listFallbackMessage)
		p.logger.Warn("Meeting list fetch failed", logging.Err(err))
	} else {
		p.meetings = meetings
		p.errMsg = ""
	}

	next := p.idle
	cadence := cadenceIdle
	for _, m := range p.meetings {
		if m.Status.IsActive() {
			next = p.active
			cadence = cadenceActive
			break
		}
	}
	if next != p.interval {
		p.interval = next
		p.metrics.recordCadence(cadence)
		p.logger.Debug("List poll cadence changed",
			logging.F("cadence", cadence),
			logging.F("interval", next.String()))
	}
	onUpdate := p.onUpdate
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
	return next, true, err
}

// Meetings returns a copy of the last successfully fetched page, in the
// order the backend returned it.
func (p *ListPoller) Meetings() []client.Meeting {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]client.Meeting, len(p.meetings))
	copy(out, p.meetings)
	return out
}

// Err returns the message from the most recent failed fetch, or "" after a
// success.
func (p *ListPoller) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// Loading reports whether a fetch is currently in flight.
func (p *ListPoller) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Interval returns the cadence chosen by the most recent fetch.
func (p *ListPoller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Running reports whether the poll loop is active.
func (p *ListPoller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

package track

import (
	"context"
	"sync"
	"time"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

// DefaultStatusInterval is the fixed cadence for single-job status polling.
const DefaultStatusInterval = 2 * time.Second

const statusFallbackMessage = "Failed to fetch processing status."

// StatusPollerOptions configures a StatusPoller.
type StatusPollerOptions struct {
	// Interval between status fetches while the job is active.
	Interval time.Duration
	Logger   logging.Logger
	Metrics  *Metrics
	// OnUpdate is invoked after every applied fetch. It runs outside the
	// poller's lock.
	OnUpdate func()
	// OnTerminal is invoked once per tracked meeting when its status first
	// reaches COMPLETED or FAILED. It runs outside the poller's lock.
	OnTerminal func(client.JobStatus)
}

// StatusPoller follows one job's processing status. It polls on a fixed
// interval only while the job reports PENDING or PROCESSING and stops on
// the first terminal status, issuing no further requests. Switching to a
// new meeting discards any in-flight response for the old one.
type StatusPoller struct {
	api        API
	interval   time.Duration
	logger     logging.Logger
	metrics    *Metrics
	onUpdate   func()
	onTerminal func(client.JobStatus)

	mu            sync.Mutex
	meetingID     string
	generation    int
	cancel        context.CancelFunc
	status        *client.JobStatus
	errMsg        string
	loading       bool
	terminalFired bool
}

// NewStatusPoller creates a poller that is not tracking anything yet.
func NewStatusPoller(api API, opts StatusPollerOptions) *StatusPoller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultStatusInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &StatusPoller{
		api:        api,
		interval:   opts.Interval,
		logger:     logger,
		metrics:    opts.Metrics,
		onUpdate:   opts.OnUpdate,
		onTerminal: opts.OnTerminal,
	}
}

// Track switches the poller to meetingID, clearing all previous state.
// An empty id stops tracking entirely. Responses still in flight for the
// previous id are rejected when they land.
func (p *StatusPoller) Track(ctx context.Context, meetingID string) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.meetingID = meetingID
	p.status = nil
	p.errMsg = ""
	p.loading = false
	p.terminalFired = false
	if meetingID == "" {
		p.mu.Unlock()
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.run(ctx, gen, meetingID)
}

// Stop halts polling without selecting a new meeting. The last applied
// status remains readable.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *StatusPoller) run(ctx context.Context, gen int, meetingID string) {
	for {
		if !p.fetch(ctx, gen, meetingID) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}

// Refetch forces one immediate status fetch for the currently tracked
// meeting, outside the poll loop. It is a no-op when nothing is tracked.
func (p *StatusPoller) Refetch(ctx context.Context) error {
	p.mu.Lock()
	gen := p.generation
	meetingID := p.meetingID
	p.mu.Unlock()
	if meetingID == "" {
		return nil
	}

	p.metrics.recordPoll(pollerStatus)
	status, err := p.api.GetMeetingStatus(ctx, meetingID)
	p.apply(gen, status, err)
	return err
}

// fetch issues one status request and applies the outcome, reporting
// whether the loop should continue.
func (p *StatusPoller) fetch(ctx context.Context, gen int, meetingID string) bool {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return false
	}
	p.loading = p.status == nil
	p.mu.Unlock()

	p.metrics.recordPoll(pollerStatus)
	status, err := p.api.GetMeetingStatus(ctx, meetingID)
	return p.apply(gen, status, err)
}

// apply records a fetch outcome if gen is still current. A response for a
// superseded generation is discarded without touching state. The return
// value reports whether polling should continue: only while the applied
// status is active.
func (p *StatusPoller) apply(gen int, status *client.JobStatus, err error) bool {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return false
	}
	p.loading = false

	var terminal *client.JobStatus
	if err != nil {
		p.errMsg = client.ErrorMessage(err, statusFallbackMessage)
		p.logger.Warn("Status fetch failed",
			logging.F("meeting_id", p.meetingID),
			logging.Err(err))
	} else {
		p.status = status
		p.errMsg = ""
		if status.Status.IsTerminal() && !p.terminalFired {
			p.terminalFired = true
			st := *status
			terminal = &st
			p.metrics.recordTerminalStop()
			p.logger.Info("Job reached terminal status",
				logging.F("meeting_id", status.MeetingID),
				logging.F("status", string(status.Status)))
		}
	}
	cont := p.status != nil && p.status.Status.IsActive()
	onUpdate := p.onUpdate
	onTerminal := p.onTerminal
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
	if terminal != nil && onTerminal != nil {
		onTerminal(*terminal)
	}
	return cont
}

// Status returns the last applied status for the tracked meeting, or nil.
func (p *StatusPoller) Status() *client.JobStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// MeetingID returns the id currently being tracked, or "".
func (p *StatusPoller) MeetingID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.meetingID
}

// Err returns the message from the most recent failed fetch, or "".
func (p *StatusPoller) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// Loading reports whether the first fetch for the tracked meeting is still
// in flight.
func (p *StatusPoller) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

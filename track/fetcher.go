package track

import (
	"context"
	"sync"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

const (
	detailsFallbackMessage = "Failed to load meeting details."
	graphFallbackMessage   = "Failed to load knowledge graph."
)

// fetcher is the shared one-shot fetch machinery behind DetailsFetcher and
// GraphContextFetcher: fetch once per selected meeting, expose data, error,
// and loading, and reject responses that land after the selection changed.
type fetcher[T any] struct {
	fetch    func(ctx context.Context, meetingID string) (*T, error)
	fallback string
	logger   logging.Logger

	mu         sync.Mutex
	meetingID  string
	generation int
	data       *T
	errMsg     string
	loading    bool
}

func newFetcher[T any](fetch func(context.Context, string) (*T, error), fallback string, logger logging.Logger) *fetcher[T] {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &fetcher[T]{fetch: fetch, fallback: fallback, logger: logger}
}

// SetMeeting selects the meeting to fetch for, clearing previous results.
// An empty id deselects. The fetch itself happens on Fetch.
func (f *fetcher[T]) SetMeeting(meetingID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if meetingID == f.meetingID {
		return
	}
	f.generation++
	f.meetingID = meetingID
	f.data = nil
	f.errMsg = ""
	f.loading = false
}

// Fetch loads data for the selected meeting. It is a no-op when nothing is
// selected. Calling it again refetches; a response belonging to a stale
// selection is discarded.
func (f *fetcher[T]) Fetch(ctx context.Context) error {
	f.mu.Lock()
	meetingID := f.meetingID
	gen := f.generation
	if meetingID == "" {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	f.mu.Unlock()

	data, err := f.fetch(ctx, meetingID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return err
	}
	f.loading = false
	if err != nil {
		f.data = nil
		f.errMsg = client.ErrorMessage(err, f.fallback)
		f.logger.Warn("Fetch failed",
			logging.F("meeting_id", meetingID),
			logging.Err(err))
		return err
	}
	f.data = data
	f.errMsg = ""
	return nil
}

// Data returns the fetched value for the current selection, or nil.
func (f *fetcher[T]) Data() *T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// MeetingID returns the current selection, or "".
func (f *fetcher[T]) MeetingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meetingID
}

// Err returns the message from the most recent failed fetch, or "".
func (f *fetcher[T]) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Loading reports whether a fetch is in flight.
func (f *fetcher[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// DetailsFetcher loads the full record for one meeting on demand.
type DetailsFetcher struct {
	*fetcher[client.MeetingDetails]
}

// NewDetailsFetcher creates a fetcher with no meeting selected.
func NewDetailsFetcher(api API, logger logging.Logger) *DetailsFetcher {
	return &DetailsFetcher{
		fetcher: newFetcher(api.GetMeetingDetails, detailsFallbackMessage, logger),
	}
}

// GraphContextFetcher loads the knowledge-graph snapshot for one meeting on
// demand.
type GraphContextFetcher struct {
	*fetcher[client.GraphContext]
}

// NewGraphContextFetcher creates a fetcher with no meeting selected.
func NewGraphContextFetcher(api API, logger logging.Logger) *GraphContextFetcher {
	return &GraphContextFetcher{
		fetcher: newFetcher(api.GetGraphContext, graphFallbackMessage, logger),
	}
}

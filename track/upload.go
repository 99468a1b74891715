package track

import (
	"context"
	"io"
	"sync"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

// UploadState describes where an UploadTracker is in its lifecycle.
type UploadState string

const (
	UploadIdle      UploadState = "idle"
	UploadUploading UploadState = "uploading"
	UploadDone      UploadState = "uploaded"
	UploadFailed    UploadState = "failed"
)

const uploadFallbackMessage = "Upload failed. Please try again."

// UploadTracker submits a recording for processing and tracks the outcome.
// The accepted job comes back immediately with a PENDING status; processing
// progress is the StatusPoller's job, not this tracker's.
type UploadTracker struct {
	api     API
	logger  logging.Logger
	metrics *Metrics

	mu      sync.Mutex
	state   UploadState
	meeting *client.Meeting
	errMsg  string
}

// UploadTrackerOptions configures an UploadTracker. Zero values are usable.
type UploadTrackerOptions struct {
	Logger  logging.Logger
	Metrics *Metrics
}

// NewUploadTracker creates an idle tracker backed by api.
func NewUploadTracker(api API, opts UploadTrackerOptions) *UploadTracker {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &UploadTracker{
		api:     api,
		logger:  logger,
		metrics: opts.Metrics,
		state:   UploadIdle,
	}
}

// Upload submits content under filename and records the accepted job.
// On failure the tracker keeps a normalized error message and no meeting.
// Concurrent calls serialize; each call fully overwrites the previous
// outcome.
func (t *UploadTracker) Upload(ctx context.Context, filename string, content io.Reader) (*client.Meeting, error) {
	t.mu.Lock()
	t.state = UploadUploading
	t.meeting = nil
	t.errMsg = ""
	t.mu.Unlock()

	meeting, err := t.api.UploadMeeting(ctx, filename, content)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.state = UploadFailed
		t.errMsg = client.ErrorMessage(err, uploadFallbackMessage)
		t.logger.Error("Upload failed",
			logging.F("filename", filename),
			logging.Err(err))
		return nil, err
	}

	t.state = UploadDone
	t.meeting = meeting
	t.logger.Info("Upload accepted",
		logging.F("meeting_id", meeting.ID),
		logging.F("status", string(meeting.Status)))
	return meeting, nil
}

// State returns the current lifecycle state.
func (t *UploadTracker) State() UploadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Meeting returns the accepted job from the last successful upload, or nil.
func (t *UploadTracker) Meeting() *client.Meeting {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meeting
}

// Err returns the normalized message from the last failed upload, or "".
func (t *UploadTracker) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errMsg
}

// Reset returns the tracker to idle, clearing any previous outcome.
func (t *UploadTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = UploadIdle
	t.meeting = nil
	t.errMsg = ""
}

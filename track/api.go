package track

import (
	"context"
	"io"

	"github.com/otherjamesbrown/recap-cli/client"
)

// API is the backend surface the trackers consume. *client.Client satisfies
// it; tests substitute fakes.
type API interface {
	UploadMeeting(ctx context.Context, filename string, content io.Reader) (*client.Meeting, error)
	ListMeetings(ctx context.Context, opts client.ListOptions) ([]client.Meeting, error)
	GetMeetingStatus(ctx context.Context, meetingID string) (*client.JobStatus, error)
	GetMeetingDetails(ctx context.Context, meetingID string) (*client.MeetingDetails, error)
	Chat(ctx context.Context, meetingID string, req client.ChatRequest) (*client.ChatResponse, error)
	GetGraphContext(ctx context.Context, meetingID string) (*client.GraphContext, error)
}

var _ API = (*client.Client)(nil)

package track

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/otherjamesbrown/recap-cli/client"
)

// fakeAPI is a scriptable API implementation. Each method counts its calls
// and delegates to an optional function field; the per-call index lets a
// test script a sequence of responses.
type fakeAPI struct {
	mu           sync.Mutex
	uploadCalls  int
	listCalls    int
	statusCalls  int
	detailsCalls int
	chatCalls    int
	graphCalls   int

	uploadFn  func(call int, filename string) (*client.Meeting, error)
	listFn    func(call int) ([]client.Meeting, error)
	statusFn  func(call int, meetingID string) (*client.JobStatus, error)
	detailsFn func(call int, meetingID string) (*client.MeetingDetails, error)
	chatFn    func(call int, meetingID string, req client.ChatRequest) (*client.ChatResponse, error)
	graphFn   func(call int, meetingID string) (*client.GraphContext, error)
}

var errFakeUnscripted = errors.New("fake: no response scripted")

func (f *fakeAPI) next(counter *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	*counter++
	return *counter
}

func (f *fakeAPI) UploadMeeting(_ context.Context, filename string, _ io.Reader) (*client.Meeting, error) {
	call := f.next(&f.uploadCalls)
	if f.uploadFn == nil {
		return nil, errFakeUnscripted
	}
	return f.uploadFn(call, filename)
}

func (f *fakeAPI) ListMeetings(_ context.Context, _ client.ListOptions) ([]client.Meeting, error) {
	call := f.next(&f.listCalls)
	if f.listFn == nil {
		return nil, errFakeUnscripted
	}
	return f.listFn(call)
}

func (f *fakeAPI) GetMeetingStatus(_ context.Context, meetingID string) (*client.JobStatus, error) {
	call := f.next(&f.statusCalls)
	if f.statusFn == nil {
		return nil, errFakeUnscripted
	}
	return f.statusFn(call, meetingID)
}

func (f *fakeAPI) GetMeetingDetails(_ context.Context, meetingID string) (*client.MeetingDetails, error) {
	call := f.next(&f.detailsCalls)
	if f.detailsFn == nil {
		return nil, errFakeUnscripted
	}
	return f.detailsFn(call, meetingID)
}

func (f *fakeAPI) Chat(_ context.Context, meetingID string, req client.ChatRequest) (*client.ChatResponse, error) {
	call := f.next(&f.chatCalls)
	if f.chatFn == nil {
		return nil, errFakeUnscripted
	}
	return f.chatFn(call, meetingID, req)
}

func (f *fakeAPI) GetGraphContext(_ context.Context, meetingID string) (*client.GraphContext, error) {
	call := f.next(&f.graphCalls)
	if f.graphFn == nil {
		return nil, errFakeUnscripted
	}
	return f.graphFn(call, meetingID)
}

func (f *fakeAPI) counts() (upload, list, status, details, chat, graph int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploadCalls, f.listCalls, f.statusCalls, f.detailsCalls, f.chatCalls, f.graphCalls
}

func (f *fakeAPI) statusCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

func (f *fakeAPI) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeAPI) chatCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls
}

func (f *fakeAPI) detailsCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailsCalls
}

func jobStatus(id string, status client.Status) *client.JobStatus {
	return &client.JobStatus{MeetingID: id, Status: status, Message: ""}
}

func meeting(id string, status client.Status) client.Meeting {
	return client.Meeting{ID: id, OriginalFilename: id + ".mp3", Status: status}
}

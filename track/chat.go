package track

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

const chatFallbackMessage = "Failed to send message. Please try again."

// ChatTurn is one utterance in a meeting conversation, tagged with a
// session-local id so an optimistic turn can be found and removed if its
// send fails.
type ChatTurn struct {
	ID      string
	Role    string
	Content string
}

// ChatSessionOptions configures a ChatSession.
type ChatSessionOptions struct {
	Logger  logging.Logger
	Metrics *Metrics
}

// ChatSession holds the conversation for one meeting. Sends are optimistic:
// the user's turn is appended before the request goes out and rolled back
// if the request fails, so a failed send leaves the transcript exactly as
// it was. Switching meetings clears the transcript.
type ChatSession struct {
	api     API
	logger  logging.Logger
	metrics *Metrics

	mu        sync.Mutex
	meetingID string
	turns     []ChatTurn
	context   *client.ChatContext
	errMsg    string
	sending   bool
}

// NewChatSession creates a session with no meeting selected.
func NewChatSession(api API, opts ChatSessionOptions) *ChatSession {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ChatSession{
		api:     api,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// SetMeeting selects the meeting to converse about. Selecting a different
// meeting, or none, discards the transcript, context, and any error.
// Re-selecting the current meeting changes nothing.
func (s *ChatSession) SetMeeting(meetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if meetingID == s.meetingID {
		return
	}
	s.meetingID = meetingID
	s.turns = nil
	s.context = nil
	s.errMsg = ""
}

// Send submits one user message. Blank input, or no selected meeting, is a
// no-op. The prior-history snapshot sent to the backend excludes the new
// message itself; the backend sees it in the message field only.
func (s *ChatSession) Send(ctx context.Context, text string) (*client.ChatResponse, error) {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	meetingID := s.meetingID
	if trimmed == "" || meetingID == "" {
		s.mu.Unlock()
		return nil, nil
	}

	history := make([]client.ChatMessage, 0, len(s.turns))
	for _, t := range s.turns {
		history = append(history, client.ChatMessage{Role: t.Role, Content: t.Content})
	}

	turn := ChatTurn{
		ID:      uuid.NewString(),
		Role:    client.RoleUser,
		Content: trimmed,
	}
	s.turns = append(s.turns, turn)
	s.errMsg = ""
	s.sending = true
	s.mu.Unlock()

	resp, err := s.api.Chat(ctx, meetingID, client.ChatRequest{
		Message: trimmed,
		History: history,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false

	// The meeting changed while the request was in flight; SetMeeting
	// already dropped the optimistic turn with the rest of the transcript.
	if s.meetingID != meetingID {
		return nil, err
	}

	if err != nil {
		s.removeTurn(turn.ID)
		s.errMsg = client.ErrorMessage(err, chatFallbackMessage)
		s.metrics.recordChatRollback()
		s.logger.Warn("Chat send failed, rolled back optimistic turn",
			logging.F("meeting_id", meetingID),
			logging.Err(err))
		return nil, err
	}

	s.turns = append(s.turns, ChatTurn{
		ID:      uuid.NewString(),
		Role:    client.RoleAssistant,
		Content: resp.Reply,
	})
	s.context = &resp.Context
	return resp, nil
}

// removeTurn deletes the turn with the given id, preserving order.
// Caller holds the lock.
func (s *ChatSession) removeTurn(id string) {
	for i, t := range s.turns {
		if t.ID == id {
			s.turns = append(s.turns[:i], s.turns[i+1:]...)
			return
		}
	}
}

// MeetingID returns the currently selected meeting, or "".
func (s *ChatSession) MeetingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meetingID
}

// Turns returns a copy of the transcript in order.
func (s *ChatSession) Turns() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Context returns the meeting context from the most recent reply, or nil.
func (s *ChatSession) Context() *client.ChatContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// Err returns the message from the most recent failed send, or "".
func (s *ChatSession) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Sending reports whether a send is in flight.
func (s *ChatSession) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

package track

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/recap-cli/client"
)

func TestChatSessionSendAppendsBothTurns(t *testing.T) {
	api := &fakeAPI{}
	api.chatFn = func(_ int, meetingID string, req client.ChatRequest) (*client.ChatResponse, error) {
		return &client.ChatResponse{
			MeetingID: meetingID,
			Reply:     "Three decisions were made.",
			Context: client.ChatContext{
				Title:  "Planning sync",
				Topics: []string{"roadmap"},
			},
		}, nil
	}

	s := NewChatSession(api, ChatSessionOptions{})
	s.SetMeeting("m1")

	resp, err := s.Send(context.Background(), "What was decided?")
	require.NoError(t, err)
	require.NotNil(t, resp)

	turns := s.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, client.RoleUser, turns[0].Role)
	assert.Equal(t, "What was decided?", turns[0].Content)
	assert.Equal(t, client.RoleAssistant, turns[1].Role)
	assert.Equal(t, "Three decisions were made.", turns[1].Content)
	assert.NotEqual(t, turns[0].ID, turns[1].ID)

	require.NotNil(t, s.Context())
	assert.Equal(t, "Planning sync", s.Context().Title)
	assert.Empty(t, s.Err())
}

func TestChatSessionHistoryExcludesNewMessage(t *testing.T) {
	var histories [][]client.ChatMessage
	api := &fakeAPI{}
	api.chatFn = func(_ int, meetingID string, req client.ChatRequest) (*client.ChatResponse, error) {
		histories = append(histories, req.History)
		return &client.ChatResponse{MeetingID: meetingID, Reply: "ok"}, nil
	}

	s := NewChatSession(api, ChatSessionOptions{})
	s.SetMeeting("m1")

	_, err := s.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "second")
	require.NoError(t, err)

	require.Len(t, histories, 2)
	assert.Empty(t, histories[0])
	require.Len(t, histories[1], 2)
	assert.Equal(t, "first", histories[1][0].Content)
	assert.Equal(t, "ok", histories[1][1].Content)
}

func TestChatSessionOptimisticRollback(t *testing.T) {
	api := &fakeAPI{}
	api.chatFn = func(call int, meetingID string, _ client.ChatRequest) (*client.ChatResponse, error) {
		if call == 1 {
			return &client.ChatResponse{MeetingID: meetingID, Reply: "Sure."}, nil
		}
		return nil, errors.New("dial tcp: connection refused")
	}

	s := NewChatSession(api, ChatSessionOptions{})
	s.SetMeeting("m1")

	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	before := s.Turns()
	require.Len(t, before, 2)

	_, err = s.Send(context.Background(), "Summarize the decisions.")
	require.Error(t, err)

	assert.Equal(t, before, s.Turns(), "failed send must restore the pre-send transcript")
	assert.Equal(t, chatFallbackMessage, s.Err())
}

func TestChatSessionEmptyInputNoOp(t *testing.T) {
	api := &fakeAPI{}
	s := NewChatSession(api, ChatSessionOptions{})
	s.SetMeeting("m1")

	for _, input := range []string{"", "   ", "\n\t"} {
		resp, err := s.Send(context.Background(), input)
		assert.NoError(t, err)
		assert.Nil(t, resp)
	}

	assert.Zero(t, api.chatCallCount())
	assert.Empty(t, s.Turns())
	assert.Empty(t, s.Err())
}

func TestChatSessionNoMeetingNoOp(t *testing.T) {
	api := &fakeAPI{}
	s := NewChatSession(api, ChatSessionOptions{})

	resp, err := s.Send(context.Background(), "hello?")
	assert.NoError(t, err)
	assert.Nil(t, resp)
	assert.Zero(t, api.chatCallCount())
}

func TestChatSessionSetMeetingClearsTranscript(t *testing.T) {
	api := &fakeAPI{}
	api.chatFn = func(_ int, meetingID string, _ client.ChatRequest) (*client.ChatResponse, error) {
		return &client.ChatResponse{MeetingID: meetingID, Reply: "ok"}, nil
	}

	s := NewChatSession(api, ChatSessionOptions{})
	s.SetMeeting("m1")
	_, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.NotEmpty(t, s.Turns())

	s.SetMeeting("m2")
	assert.Empty(t, s.Turns())
	assert.Nil(t, s.Context())
	assert.Empty(t, s.Err())

	// Re-selecting the same meeting keeps the transcript.
	s.SetMeeting("m2")
	_, err = s.Send(context.Background(), "hi")
	require.NoError(t, err)
	s.SetMeeting("m2")
	assert.Len(t, s.Turns(), 2)
}

func TestChatSessionMeetingSwitchMidFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{}
	api.chatFn = func(_ int, meetingID string, _ client.ChatRequest) (*client.ChatResponse, error) {
		close(started)
		<-release
		return nil, errors.New("timeout")
	}

	s := NewChatSession(api, ChatSessionOptions{})
	s.SetMeeting("m1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Send(context.Background(), "hello")
	}()

	// Switch meetings while the send is in flight, then let it fail.
	<-started
	s.SetMeeting("m2")
	close(release)
	<-done

	assert.Empty(t, s.Turns(), "failure for the old meeting must not touch the new transcript")
	assert.Empty(t, s.Err())
}

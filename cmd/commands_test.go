package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/recap-cli/client"
	"github.com/otherjamesbrown/recap-cli/config"
)

// testDeps wires the commands to an httptest backend with defaults that
// skip the credential store.
func testDeps(t *testing.T, handler http.HandlerFunc) *Deps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL

	return &Deps{
		Config: cfg,
		NewClient: func(cfg *config.CLIConfig) (*client.Client, error) {
			return client.NewClient(cfg.APIBaseURL, nil), nil
		},
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestMeetingsListCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meetings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"m2","original_filename":"retro.mp3","status":"PROCESSING"},
			{"id":"m1","original_filename":"standup.mp3","status":"COMPLETED"}
		]`)
	})

	out, err := execute(t, NewMeetingsCommand(deps), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "m2")
	assert.Contains(t, out, "Processing")
	assert.Contains(t, out, "standup.mp3")
}

func TestMeetingsListCommandEmpty(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	out, err := execute(t, NewMeetingsCommand(deps), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No meetings found.")
}

func TestMeetingsListCommandBackendDown(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := execute(t, NewMeetingsCommand(deps), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown error")
}

func TestMeetingsShowCommandJSON(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meetings/m1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"m1","original_filename":"standup.mp3","status":"COMPLETED","summary":"Recap."}`)
	})

	out, err := execute(t, NewMeetingsCommand(deps), "show", "m1", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"summary": "Recap."`)
}

func TestMeetingsStatusCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meetings/m1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"meeting_id":"m1","status":"PROCESSING","message":"transcribing"}`)
	})

	out, err := execute(t, NewMeetingsCommand(deps), "status", "m1")
	require.NoError(t, err)
	assert.Contains(t, out, "Processing")
	assert.Contains(t, out, "transcribing")
}

func TestUploadCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meetings/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "standup.mp3", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		io.WriteString(w, `{"id":"m1","original_filename":"standup.mp3","status":"PENDING"}`)
	})

	path := filepath.Join(t.TempDir(), "standup.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0644))

	out, err := execute(t, NewUploadCommand(deps), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Meeting ID: m1")
	assert.Contains(t, out, "Pending")
}

func TestUploadCommandMissingFile(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := execute(t, NewUploadCommand(deps), "/does/not/exist.mp3")
	require.Error(t, err)
}

func TestChatCommandSingleMessage(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meetings/m1/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"meeting_id":"m1","reply":"Two action items.","context":{"title":"Standup"}}`)
	})

	cmd := NewChatCommand(deps)
	out, err := execute(t, cmd, "m1", "--message", "What are the action items?")
	require.NoError(t, err)
	assert.Contains(t, out, "Two action items.")
}

func TestGraphCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/meetings/m1/graph-context", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"title":"Planning",
			"participants":[{"name":"Dana","role":"PM"}],
			"decisions":[{"title":"Ship in June"}],
			"topics":["roadmap"],
			"action_items_structured":[{"title":"Draft RFC","owner":"Dana"}]
		}`)
	})

	out, err := execute(t, NewGraphCommand(deps), "m1")
	require.NoError(t, err)
	assert.Contains(t, out, "Dana (PM)")
	assert.Contains(t, out, "Ship in June")
	assert.Contains(t, out, "roadmap")
	assert.Contains(t, out, "Draft RFC (owner: Dana)")
}

func TestSearchCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "budget approval", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"query":"budget approval","results":[
			{"content":"the budget was approved by finance","metadata":{"meeting_id":"m1"},"distance":0.08}
		]}`)
	})

	out, err := execute(t, NewSearchCommand(deps), "budget", "approval")
	require.NoError(t, err)
	assert.Contains(t, out, "budget was approved")
	assert.Contains(t, out, "meeting: m1")
}

func TestAnalyticsCommandOverview(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/analytics/overview":
			io.WriteString(w, `{"total_meetings":12,"completed_meetings":9,"processing_meetings":2,"error_meetings":1,"completion_rate":75.0,"average_sentiment_score":6.5}`)
		case "/analytics/sentiment-distribution":
			io.WriteString(w, `{"positive":5,"neutral":3,"negative":1}`)
		case "/analytics/processing-stats":
			io.WriteString(w, `{"transcribed":10,"summarized":9,"sentiment_analyzed":9,"topics_extracted":8,"total_meetings":12,"transcription_rate":83.3,"analysis_rate":75.0}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	out, err := execute(t, NewAnalyticsCommand(deps))
	require.NoError(t, err)
	assert.Contains(t, out, "12 total, 9 completed, 2 processing, 1 failed")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "5 positive, 3 neutral, 1 negative")
	assert.Contains(t, out, "transcribed:        10")
}

func TestAnalyticsTopicsCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/top-topics", r.URL.Path)
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"topics":[{"name":"roadmap","frequency":4,"avg_relevance":8.2}]}`)
	})

	out, err := execute(t, NewAnalyticsCommand(deps), "topics", "--limit", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "roadmap")
	assert.Contains(t, out, "8.2")
}

func TestAnalyticsTimelineCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/sentiment-timeline", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"timeline":[{"date":"2026-08-30","sentiment_score":7.1,"meeting_count":3}]}`)
	})

	out, err := execute(t, NewAnalyticsCommand(deps), "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-08-30")
	assert.Contains(t, out, "7.1")
}

func TestAnalyticsGraphCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/knowledge-graph", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"nodes":[{"id":"roadmap","label":"roadmap","size":40,"frequency":4}],
			"edges":[{"source":"roadmap","target":"budget","weight":2}]
		}`)
	})

	out, err := execute(t, NewAnalyticsCommand(deps), "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "roadmap")
	assert.Contains(t, out, "roadmap <-> budget (2)")
}

func TestHealthCommand(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`)
	})

	out, err := execute(t, NewHealthCommand(deps))
	require.NoError(t, err)
	assert.Contains(t, out, "Backend healthy")
}

func TestHealthCommandReady(t *testing.T) {
	deps := testDeps(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ready", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ready","checks":{"db":"ok","vector_store":"ok"}}`)
	})

	cmd := NewHealthCommand(deps)
	out, err := execute(t, cmd, "--ready")
	require.NoError(t, err)
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "db")
}

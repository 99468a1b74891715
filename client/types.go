// Package client provides the HTTP client for the Recap meeting-intelligence API.
// This file contains the wire types shared by the per-endpoint client methods.
package client

import "time"

// Status is the processing state of a meeting job as reported by the backend.
// Values are case-sensitive wire constants.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// IsTerminal reports whether no further status transitions are expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsActive reports whether the job still has backend work outstanding.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusProcessing
}

// IsValid reports whether s is one of the known wire values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Meeting is the list-row projection of an uploaded meeting.
type Meeting struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// JobStatus is the fine-grained processing status of one meeting.
type JobStatus struct {
	MeetingID string `json:"meeting_id"`
	Status    Status `json:"status"`
	Message   string `json:"message"`
}

// MeetingDetails is a Meeting plus the derived artifacts. All artifact
// fields are optional; an empty value means "not yet produced", not an error.
type MeetingDetails struct {
	Meeting

	Transcript     string `json:"transcript,omitempty"`
	Summary        string `json:"summary,omitempty"`
	KeyPoints      string `json:"key_points,omitempty"`
	ActionItems    string `json:"action_items,omitempty"`
	Sentiment      string `json:"sentiment,omitempty"`
	Tags           string `json:"tags,omitempty"`
	KnowledgeGraph string `json:"knowledge_graph,omitempty"`
}

// ChatMessage is one conversation turn as sent to the chat endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is the payload for a chat turn against one meeting.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatContext is the meeting context snapshot returned with each reply.
type ChatContext struct {
	Title     string   `json:"title,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Topics    []string `json:"topics,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// ChatResponse is the backend's answer to a chat turn.
type ChatResponse struct {
	MeetingID string      `json:"meeting_id"`
	Reply     string      `json:"reply"`
	Context   ChatContext `json:"context"`
}

// Participant is a person extracted into the meeting knowledge graph.
type Participant struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Decision is a decision node extracted into the meeting knowledge graph.
type Decision struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
}

// TimelineEvent is one entry of the meeting's extracted timeline.
type TimelineEvent struct {
	Label     string `json:"label"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ActionItem is a structured follow-up extracted from the meeting.
type ActionItem struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
	Owner   string `json:"owner,omitempty"`
}

// GraphContext is the read-mostly knowledge-graph snapshot for one meeting.
type GraphContext struct {
	Title        string          `json:"title,omitempty"`
	CreatedAt    string          `json:"created_at,omitempty"`
	Participants []Participant   `json:"participants"`
	Decisions    []Decision      `json:"decisions"`
	Timeline     []TimelineEvent `json:"timeline"`
	Topics       []string        `json:"topics"`
	ActionItems  []ActionItem    `json:"action_items_structured,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
}

// SearchResult is one semantic search hit.
type SearchResult struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Distance float64        `json:"distance"`
}

// SearchResponse is the result set for one semantic search query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// AnalyticsOverview is the cross-meeting summary the analytics surface
// leads with.
type AnalyticsOverview struct {
	TotalMeetings         int     `json:"total_meetings"`
	CompletedMeetings     int     `json:"completed_meetings"`
	ProcessingMeetings    int     `json:"processing_meetings"`
	ErrorMeetings         int     `json:"error_meetings"`
	CompletionRate        float64 `json:"completion_rate"`
	AverageSentimentScore float64 `json:"average_sentiment_score"`
}

// SentimentDistribution counts meetings by overall sentiment.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// TopicStat is one entry of the most-discussed-topics ranking.
type TopicStat struct {
	Name         string  `json:"name"`
	Frequency    int     `json:"frequency"`
	AvgRelevance float64 `json:"avg_relevance"`
}

// TopTopicsResponse is the ranked topic list.
type TopTopicsResponse struct {
	Topics []TopicStat `json:"topics"`
}

// SentimentPoint is one day of the sentiment trend.
type SentimentPoint struct {
	Date           string  `json:"date"`
	SentimentScore float64 `json:"sentiment_score"`
	MeetingCount   int     `json:"meeting_count"`
}

// SentimentTimelineResponse is the sentiment trend over a date window.
type SentimentTimelineResponse struct {
	Timeline []SentimentPoint `json:"timeline"`
}

// ProcessingStats reports how far the pipeline has gotten across all
// meetings.
type ProcessingStats struct {
	Transcribed       int     `json:"transcribed"`
	Summarized        int     `json:"summarized"`
	SentimentAnalyzed int     `json:"sentiment_analyzed"`
	TopicsExtracted   int     `json:"topics_extracted"`
	TotalMeetings     int     `json:"total_meetings"`
	TranscriptionRate float64 `json:"transcription_rate"`
	AnalysisRate      float64 `json:"analysis_rate"`
}

// GraphNode is one topic node of the cross-meeting knowledge graph.
type GraphNode struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Size      int    `json:"size"`
	Frequency int    `json:"frequency"`
}

// GraphEdge links two topics that co-occur in the same meetings.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// KnowledgeGraph is the topic co-occurrence graph across all meetings,
// distinct from the per-meeting GraphContext.
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// ReadyResponse is the readiness probe payload with per-dependency checks.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

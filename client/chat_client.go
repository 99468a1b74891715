// Package client provides the HTTP client for the Recap meeting-intelligence API.
// This file contains the chat and knowledge-graph context methods.
package client

import (
	"context"
	"net/http"
	"net/url"
)

// Chat sends one chat turn for the given meeting. History carries the prior
// conversation so the backend can answer in context; the caller owns
// history ordering.
func (c *Client) Chat(ctx context.Context, meetingID string, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	path := "/meetings/" + url.PathEscape(meetingID) + "/chat"
	if err := c.doJSON(ctx, "chat", http.MethodPost, path, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGraphContext fetches the knowledge-graph snapshot for one meeting:
// participants, decisions, timeline events, and topics.
func (c *Client) GetGraphContext(ctx context.Context, meetingID string) (*GraphContext, error) {
	var out GraphContext
	path := "/meetings/" + url.PathEscape(meetingID) + "/graph-context"
	if err := c.doJSON(ctx, "get_graph_context", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

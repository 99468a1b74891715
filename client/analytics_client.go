// Package client provides the HTTP client for the Recap meeting-intelligence API.
// This file contains the cross-meeting analytics methods. These endpoints
// live at the base URL without the versioned prefix, like the health probes.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Analytics query defaults, matching the backend's.
const (
	DefaultTopTopicsLimit = 10
	DefaultTimelineDays   = 30
)

// GetAnalyticsOverview fetches the platform-wide meeting statistics.
func (c *Client) GetAnalyticsOverview(ctx context.Context) (*AnalyticsOverview, error) {
	var out AnalyticsOverview
	if err := c.do(ctx, "analytics_overview", http.MethodGet, "/analytics/overview", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSentimentDistribution fetches meeting counts grouped by overall
// sentiment.
func (c *Client) GetSentimentDistribution(ctx context.Context) (*SentimentDistribution, error) {
	var out SentimentDistribution
	if err := c.do(ctx, "analytics_sentiment", http.MethodGet, "/analytics/sentiment-distribution", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTopTopics fetches the most frequently discussed topics, ranked by
// frequency. A non-positive limit requests the backend default.
func (c *Client) GetTopTopics(ctx context.Context, limit int) (*TopTopicsResponse, error) {
	if limit <= 0 {
		limit = DefaultTopTopicsLimit
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var out TopTopicsResponse
	if err := c.do(ctx, "analytics_topics", http.MethodGet, "/analytics/top-topics", params, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSentimentTimeline fetches the per-day sentiment trend over the last
// days days. A non-positive window requests the backend default.
func (c *Client) GetSentimentTimeline(ctx context.Context, days int) (*SentimentTimelineResponse, error) {
	if days <= 0 {
		days = DefaultTimelineDays
	}
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	var out SentimentTimelineResponse
	if err := c.do(ctx, "analytics_timeline", http.MethodGet, "/analytics/sentiment-timeline", params, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProcessingStats fetches pipeline progress counts across all meetings.
func (c *Client) GetProcessingStats(ctx context.Context) (*ProcessingStats, error) {
	var out ProcessingStats
	if err := c.do(ctx, "analytics_processing", http.MethodGet, "/analytics/processing-stats", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetKnowledgeGraph fetches the cross-meeting topic co-occurrence graph.
func (c *Client) GetKnowledgeGraph(ctx context.Context) (*KnowledgeGraph, error) {
	var out KnowledgeGraph
	if err := c.do(ctx, "analytics_graph", http.MethodGet, "/analytics/knowledge-graph", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

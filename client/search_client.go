// Package client provides the HTTP client for the Recap meeting-intelligence API.
// This file contains the semantic search method.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSearchTopK is the number of results requested when topK is zero.
const DefaultSearchTopK = 5

// Search performs a semantic search across indexed meeting content.
// A blank query is answered locally with an empty result set; trivial
// omissions are not worth a round trip or an error.
func (c *Client) Search(ctx context.Context, query string, topK int) (*SearchResponse, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &SearchResponse{Query: query, Results: []SearchResult{}}, nil
	}
	if topK <= 0 {
		topK = DefaultSearchTopK
	}

	params := url.Values{}
	params.Set("query", trimmed)
	params.Set("top_k", strconv.Itoa(topK))

	var out SearchResponse
	if err := c.doJSON(ctx, "search", http.MethodGet, "/search", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

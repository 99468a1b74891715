// Package client provides the HTTP client for the Recap meeting-intelligence API.
// It handles request construction, error normalization, and per-request
// observability (structured logging, tracing, metrics).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/otherjamesbrown/recap-cli/pkg/logging"
)

// Default client settings.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "recap-cli"

	// apiPrefix is prepended to every versioned endpoint path.
	apiPrefix = "/api/v1"

	// unknownErrorMessage is used when an error response carries no
	// parseable {detail} body.
	unknownErrorMessage = "Unknown error"

	// tracerName identifies the tracer for API request spans.
	tracerName = "recap-client"
)

// Span attribute keys.
const (
	attrMethod     = "http.method"
	attrPath       = "http.path"
	attrStatusCode = "http.status_code"
	attrOperation  = "recap.operation"
)

// APIError is a normalized backend error: the HTTP status plus the
// human-readable message from the response's {detail} field.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is an APIError with HTTP 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorMessage extracts the user-facing message from any client error.
// APIErrors pass their backend message through verbatim; everything else
// (transport failures, cancellations) gets the fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}

// ClientOptions configures the Client behavior.
type ClientOptions struct {
	// Timeout is the per-request timeout applied by the HTTP transport.
	Timeout time.Duration

	// APIKey, when set, is sent as the X-API-Key header on every request.
	APIKey string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Logger receives per-request debug logging. Nil means no logging.
	Logger logging.Logger

	// Metrics receives per-request counters and latencies. Nil disables
	// instrumentation.
	Metrics *Metrics
}

// DefaultOptions returns ClientOptions with default values.
func DefaultOptions() *ClientOptions {
	return &ClientOptions{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client is the HTTP client for the Recap backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	options    *ClientOptions
	logger     logging.Logger
	tracer     trace.Tracer
}

// NewClient creates a new Client for the given base URL (scheme://host:port).
func NewClient(baseURL string, opts *ClientOptions) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		options: opts,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle transport connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready checks backend readiness, including downstream dependency checks.
func (c *Client) Ready(ctx context.Context) (*ReadyResponse, error) {
	var out ReadyResponse
	if err := c.do(ctx, "ready", http.MethodGet, "/ready", nil, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON marshals body (when non-nil) and executes a JSON request against
// a versioned API path.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, apiPrefix+path, query, reader, contentType, out)
}

// do executes a single HTTP request and decodes the JSON response into out.
// Non-2xx responses are normalized into *APIError; transport failures are
// returned wrapped so callers can still present a plain message.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.options.UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.options.APIKey != "" {
		req.Header.Set("X-API-Key", c.options.APIKey)
	}

	ctx, span := c.tracer.Start(ctx, "recap.api."+op,
		trace.WithAttributes(
			attribute.String(attrOperation, op),
			attribute.String(attrMethod, method),
			attribute.String(attrPath, path),
		),
	)
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.options.Metrics.observe(op, "transport_error", elapsed)
		c.logger.Debug("request failed",
			logging.F("operation", op),
			logging.F("method", method),
			logging.F("path", path),
			logging.Err(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(attrStatusCode, resp.StatusCode))
	c.logger.Debug("request completed",
		logging.F("operation", op),
		logging.F("method", method),
		logging.F("path", path),
		logging.F("status", resp.StatusCode),
		logging.F("duration", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		span.SetStatus(codes.Error, apiErr.Message)
		c.options.Metrics.observe(op, "api_error", elapsed)
		return apiErr
	}

	c.options.Metrics.observe(op, "ok", elapsed)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: unknownErrorMessage}
	}
	return nil
}

// decodeError normalizes a non-2xx response into an APIError. The backend
// sends {detail: string}; anything unparseable becomes the generic message.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    unknownErrorMessage,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		apiErr.Message = payload.Detail
	}
	return apiErr
}

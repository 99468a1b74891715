// Package client provides the HTTP client for the Recap meeting-intelligence API.
// This file contains the meeting upload, listing, status, and details methods.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// ListOptions narrows a meeting list request.
type ListOptions struct {
	// Limit caps the number of returned meetings. Zero means the
	// backend default.
	Limit int

	// Status filters to a single processing state when set.
	Status Status
}

// UploadMeeting uploads one recording as a multipart request and returns
// the created meeting record. The backend accepts the job and processes it
// asynchronously; the returned status is the job's initial state.
func (c *Client) UploadMeeting(ctx context.Context, filename string, content io.Reader) (*Meeting, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart form: %w", err)
	}

	var out Meeting
	err = c.do(ctx, "upload_meeting", http.MethodPost, apiPrefix+"/meetings/upload",
		nil, &buf, writer.FormDataContentType(), &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMeetings fetches the most recent meetings, newest first, in the
// order the backend returns them.
func (c *Client) ListMeetings(ctx context.Context, opts ListOptions) ([]Meeting, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}

	var out []Meeting
	if err := c.doJSON(ctx, "list_meetings", http.MethodGet, "/meetings", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMeetingStatus fetches the current processing status of one meeting.
func (c *Client) GetMeetingStatus(ctx context.Context, meetingID string) (*JobStatus, error) {
	var out JobStatus
	path := "/meetings/" + url.PathEscape(meetingID) + "/status"
	if err := c.doJSON(ctx, "get_meeting_status", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMeetingDetails fetches the full meeting record including any derived
// artifacts produced so far.
func (c *Client) GetMeetingDetails(ctx context.Context, meetingID string) (*MeetingDetails, error) {
	var out MeetingDetails
	path := "/meetings/" + url.PathEscape(meetingID)
	if err := c.doJSON(ctx, "get_meeting_details", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

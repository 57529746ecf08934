// Package webapi fetches session transcripts from the Anthropic session
// ingress API.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	requestTimeout = 30 * time.Second
	maxBodySize    = 64 << 20 // transcripts can be large
)

var (
	// ErrUnauthorized indicates the token is expired or invalid.
	ErrUnauthorized = errors.New("webapi: unauthorized (token expired or invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("webapi: rate limited")
	// ErrNotFound indicates the session does not exist or is not visible
	// to this organization.
	ErrNotFound = errors.New("webapi: session not found")
)

// Client fetches session loglines from the web API.
type Client struct {
	baseURL string
	token   string
	orgUUID string
	http    *http.Client
}

// NewClient creates a client for the given credentials. baseURL may be empty
// to use the production endpoint.
func NewClient(baseURL, token, orgUUID string) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("webapi: token is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		orgUUID: orgUUID,
		http:    &http.Client{},
	}, nil
}

// sessionResponse is the raw API response for a session fetch.
type sessionResponse struct {
	Loglines []json.RawMessage `json:"loglines"`
}

// GetSession returns the raw loglines of the given session, in transcript
// order, ready to be decoded like a local JSONL file.
func (c *Client) GetSession(ctx context.Context, sessionID string) ([]json.RawMessage, error) {
	body, err := c.get(ctx, "/v1/session_ingress/session/"+sessionID)
	if err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("webapi: parsing session: %w", err)
	}
	return resp.Loglines, nil
}

// get performs an authenticated GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("webapi: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ccreport/1.0")
	if c.orgUUID != "" {
		req.Header.Set("anthropic-organization-id", c.orgUUID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusNotFound:
		return nil, ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webapi: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("webapi: reading response: %w", err)
	}
	return body, nil
}

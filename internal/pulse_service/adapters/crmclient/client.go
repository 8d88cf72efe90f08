// Package crmclient implements thin JSON/HTTP clients for the CRM backend's
// REST collaborators: contact/call listing, timeline, messaging, calls, leads,
// quick-message templates and super-admin management.
package crmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// Client talks to the CRM backend REST API. One instance covers every
// collaborator; the method groups live in sibling files.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given base URL. token may be empty when
// the backend trusts the network boundary.
func NewClient(baseURL string, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "crm_client"),
	}
}

// apiError mirrors the backend's error envelope: {"error": "...", "details": "..."}.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

// do performs one JSON request. out, when non-nil, receives the decoded
// response body. Non-2xx responses are mapped onto the domain error taxonomy
// with the backend's message preserved verbatim.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid request URL %q: %w", c.baseURL+path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: projections keep their last-known-good state.
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return c.mapStatusError(ctx, method, path, resp.StatusCode, raw)
}

// mapStatusError converts an HTTP error status into the domain taxonomy.
func (c *Client) mapStatusError(ctx context.Context, method, path string, status int, raw []byte) error {
	msg := serverMessage(raw)

	c.logger.WarnContext(ctx, "CRM backend returned error status",
		"method", method, "path", path, "status", status, "message", msg)

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case status == http.StatusConflict:
		// Surfaced verbatim to the user (e.g. "cannot remove last admin").
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case status >= 500:
		return fmt.Errorf("%w: %s %s returned %d: %s", domain.ErrUnavailable, method, path, status, msg)
	default:
		return fmt.Errorf("unexpected status %d from %s %s: %s", status, method, path, msg)
	}
}

// serverMessage extracts the human-readable message from an error envelope,
// falling back to the raw body when the envelope doesn't parse.
func serverMessage(raw []byte) string {
	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Error != "":
			return envelope.Error
		case envelope.Message != "":
			return envelope.Message
		}
	}
	return string(raw)
}

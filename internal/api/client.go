// Package api implements the HTTP transport for the remote task API. Every
// failure leaving this package is a *Error; every terminal failure is also
// surfaced once on the notification bus.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/asalgado/tasq/internal/events"
)

// TokenSource yields the current bearer token, or "" when no session exists.
type TokenSource interface {
	Token() string
}

// Client issues authenticated requests against the task API.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	bus     *events.Bus

	// onUnauthorized is invoked once per 401 response so the session owner
	// can clear its stored credentials.
	onUnauthorized func()
}

// New creates a Client for the given base URL. The timeout applies to every
// request as a blanket deadline; there are no retries.
func New(baseURL string, timeout time.Duration, bus *events.Bus) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		bus:     bus,
	}
}

// SetTokenSource registers the session token provider.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

// SetUnauthorizedHook registers the callback run when the server reports an
// expired or invalid session.
func (c *Client) SetUnauthorizedHook(fn func()) { c.onUnauthorized = fn }

// errorBody is the shape servers use for failure responses.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Do issues a request and decodes a JSON response into out (out may be nil
// for empty responses). Any failure is normalized to *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: msgValidation}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: msgNetwork}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		kind := classifyTransport(err)
		apiErr := &Error{Kind: kind, Message: fallbackMessage(kind)}
		slog.Debug("request failed", "method", method, "path", path, "error", err)
		c.notifyError(apiErr.Message)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.handleErrorResponse(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		apiErr := &Error{Kind: KindServer, Message: msgServerError, Status: resp.StatusCode}
		c.notifyError(apiErr.Message)
		return apiErr
	}
	return nil
}

func (c *Client) handleErrorResponse(method, path string, resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(data, &eb)

	kind := kindForStatus(resp.StatusCode)
	apiErr := &Error{Kind: kind, Status: resp.StatusCode, Message: selectMessage(kind, eb)}

	if resp.StatusCode == http.StatusUnauthorized && !isPublicPath(path) {
		// A rejected session: drop the stored credentials so subsequent
		// requests go out anonymous, and let the presentation layer steer
		// back to the login screen.
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.bus.Publish(events.NewEvent(events.EventSessionExpired, events.SourceAPI, nil))
		apiErr.Message = msgSessionExpired
	}

	slog.Debug("request rejected", "method", method, "path", path, "status", resp.StatusCode)
	c.notifyError(apiErr.Message)
	return apiErr
}

// selectMessage picks the display message: the first field-level validation
// message, else the server-provided message, else the per-class fallback.
func selectMessage(kind Kind, eb errorBody) string {
	if len(eb.Errors) > 0 {
		fields := make([]string, 0, len(eb.Errors))
		for f := range eb.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			if len(eb.Errors[f]) > 0 && eb.Errors[f][0] != "" {
				return eb.Errors[f][0]
			}
		}
	}
	if eb.Message != "" {
		return eb.Message
	}
	return fallbackMessage(kind)
}

// isPublicPath reports whether a path belongs to the unauthenticated surface,
// where a 401 means bad credentials rather than an expired session.
func isPublicPath(path string) bool {
	return path == "/auth/login" || path == "/auth/register"
}

func (c *Client) notifyError(message string) {
	c.bus.Notify(events.SourceAPI, events.LevelError, message)
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

func taskPath(id string) string { return fmt.Sprintf("/tasks/%s", id) }

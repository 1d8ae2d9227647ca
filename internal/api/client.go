// Package api is the client for the remote persistence API: user records
// and timetable entries over JSON/HTTP with bearer authentication.
package api

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

	"github.com/julianstephens/timetable/internal/constants"
	"github.com/julianstephens/timetable/internal/logger"
)

// TokenSource supplies the bearer credential attached to each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Error is returned for any failed request. StatusCode is 0 when the request
// never produced a response (connection refused, timeout).
type Error struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorBody is the JSON error shape returned by the backend.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

type Option func(*Client)

// WithTimeout sets the per-request timeout. A timed-out request is an ordinary failure.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New creates a client rooted at baseURL. tokens may be nil for
// unauthenticated endpoints.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: constants.RequestTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) Do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("failed to get token: %w", err)}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("API request failed", "op", op, "method", method, "path", path, "error", err)
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Op: op, StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Code = eb.Code
			apiErr.Message = eb.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		logger.Error("API error", "op", op, "status", resp.StatusCode, "body", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}

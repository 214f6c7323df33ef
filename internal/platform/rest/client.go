package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "pdtrack/internal/platform/errors"
	"pdtrack/internal/platform/id"
)

// Auth selects whether a request carries the session's bearer token.
type Auth int

const (
	AuthNone Auth = iota
	AuthRequired
)

// TokenSource supplies the current bearer token. The client reads it fresh on
// every call rather than caching it at construction, so a logout is
// observed by the next request. Invalidate is called when the backend rejects
// the token, making the next IsAuthenticated check report false without an
// explicit logout.
type TokenSource interface {
	Token() (string, bool)
	Invalidate()
}

// Client issues JSON requests against the backend and classifies failures
// into the apperrors taxonomy. It never retries; every call is at-most-once.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	reqIDs  id.Generator
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, reqIDs id.Generator) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		reqIDs:  reqIDs,
	}
}

// Do performs one request. A non-nil body is JSON-encoded; a non-nil out has
// the 2xx response body decoded into it. With auth=AuthRequired and no stored
// token it fails locally with ErrUnauthenticated and performs no network call.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, auth Auth) error {
	var token string
	if auth == AuthRequired {
		t, ok := c.tokens.Token()
		if !ok {
			return apperrors.ErrUnauthenticated
		}
		token = t
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", c.reqIDs.New())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return ctx.Err()
		}
		return &apperrors.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := decodeError(resp)
		if auth == AuthRequired && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			// The backend no longer honors the token. Clear the session
			// before surfacing, so the guard reroutes on its next check.
			c.tokens.Invalidate()
			return apperrors.ErrSessionExpired
		}
		return serverErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// decodeError reads the backend's failure body. Most endpoints answer with
// {"message"}, but the prediction endpoints use {"error"}.
func decodeError(resp *http.Response) *apperrors.ServerError {
	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		}
	}
	return &apperrors.ServerError{Status: resp.StatusCode, Message: msg}
}

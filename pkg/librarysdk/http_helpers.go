package librarysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/libris/pkg/idx"
)

// pendingRequest is everything needed to send a call again after a refresh.
// The body is buffered so the resend is byte-identical.
type pendingRequest struct {
	method    string
	path      string
	query     url.Values
	body      []byte
	requestID string
	retried   bool
}

func newRequest(method, path string, payload any) (*pendingRequest, error) {
	req := &pendingRequest{
		method:    method,
		path:      path,
		requestID: idx.New().String(),
	}

	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		req.body = body
	}

	return req, nil
}

func (r *pendingRequest) withQuery(key, value string) *pendingRequest {
	if r.query == nil {
		r.query = url.Values{}
	}
	r.query.Set(key, value)
	return r
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string, query url.Values) string {
	u := c.BaseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs one attempt. An empty token sends the request unauthenticated.
func (c *Client) send(ctx context.Context, r *pendingRequest, token string) (*http.Response, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.url(r.path, r.query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", r.requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: r.method + " " + r.path, Err: err}
	}
	return resp, nil
}

// doRequest sends a request without credentials and without the refresh
// path. Used for login, registration and the refresh call itself.
func (c *Client) doRequest(ctx context.Context, r *pendingRequest) (*http.Response, error) {
	return c.send(ctx, r, "")
}

// do is the authenticated wrapper. It attaches the stored access token and,
// on the first 401, refreshes the token and resends the request exactly
// once. If the refresh cannot happen, or the session was cleared meanwhile,
// a *SessionExpiredError is returned.
func (c *Client) do(ctx context.Context, r *pendingRequest) (*http.Response, error) {
	token, err := c.Store.Get(ctx, KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	resp, err := c.send(ctx, r, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || r.retried {
		return resp, nil
	}

	original := drainError(resp)
	r.retried = true

	if err := c.refresh(ctx, token); err != nil {
		return nil, &SessionExpiredError{Cause: err, Original: original}
	}

	// A logout may have landed while the refresh was in flight.
	current, err := c.Store.Get(ctx, KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if current == "" {
		return nil, &SessionExpiredError{Cause: ErrSessionCleared, Original: original}
	}

	c.Metrics.retried()
	return c.send(ctx, r, current)
}

// drainError consumes and closes resp, returning its typed error.
func drainError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return parseErrorResponse(resp, body)
}

// decodeJSON decodes a 2xx response into target, or returns the typed error
// for anything else. A nil target or an empty body skips decoding.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := parseErrorResponse(resp, bodyBytes); err != nil {
		return err
	}

	if target == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// call runs r through the authenticated wrapper and decodes the result.
func (c *Client) call(ctx context.Context, r *pendingRequest, target any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"casedesk/internal/config"
	"casedesk/internal/session"
)

// Client is the authenticated, concurrency-aware transport for the
// case-management REST surface. Every outbound request carries the session
// credential; conditional-update preconditions and 401 recovery are
// transparent to callers.
type Client struct {
	cfg      config.Config
	http     *http.Client
	session  *session.Manager
	observer Observer
}

// NewClient creates a Client bound to a session manager. observer may be
// nil to disable call logging.
func NewClient(cfg config.Config, sess *session.Manager, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		session:  sess,
		observer: observer,
	}
}

// Session returns the session manager the client authenticates with.
func (c *Client) Session() *session.Manager {
	return c.session
}

// url resolves an endpoint against the application API base. Absolute hrefs
// embedded in responses are used verbatim.
func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.cfg.BaseAPIURL() + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) patch(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPatch, endpoint, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

// do performs one authenticated request. A 401 on a bearer session triggers
// the single-flight refresh protocol and a single replay with the new
// access token; refresh failure surfaces as ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	start := time.Now()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}
	u := c.url(endpoint)

	status, respBody, err := c.send(ctx, method, u, payload, "")

	if err == nil && status == http.StatusUnauthorized {
		tokens, ok := c.session.Tokens()
		if !ok || !tokens.Bearer() {
			c.observe(method, u, status, start, ErrUnauthorized)
			return ErrUnauthorized
		}
		refreshed, rerr := c.session.Refresh(ctx, c.refreshGrant)
		if rerr != nil {
			c.observe(method, u, status, start, rerr)
			return fmt.Errorf("%w: %v", ErrSessionExpired, rerr)
		}
		status, respBody, err = c.send(ctx, method, u, payload, refreshed.TokenType+" "+refreshed.AccessToken)
	}

	if err != nil {
		c.observe(method, u, 0, start, err)
		return fmt.Errorf("requesting %s %s: %w", method, u, err)
	}
	if status == http.StatusUnauthorized {
		c.observe(method, u, status, start, ErrUnauthorized)
		return ErrUnauthorized
	}
	if status >= 300 {
		apiErr := &APIError{StatusCode: status, Body: string(respBody)}
		c.observe(method, u, status, start, apiErr)
		return apiErr
	}
	c.observe(method, u, status, start, nil)

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// send issues a single HTTP exchange: attaches the Authorization header
// (from authOverride when replaying after a refresh), attaches the If-Match
// precondition on conditional writes, and captures any version token the
// response carries.
func (c *Client) send(ctx context.Context, method, u string, payload []byte, authOverride string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authOverride != "" {
		req.Header.Set("Authorization", authOverride)
	} else if tokens, ok := c.session.Tokens(); ok {
		tokenType := tokens.TokenType
		if tokenType == "" {
			tokenType = "Bearer"
		}
		req.Header.Set("Authorization", tokenType+" "+tokens.AccessToken)
	}

	if method == http.MethodPatch || method == http.MethodPut {
		if etag, ok := c.session.VersionToken(u); ok {
			req.Header.Set("If-Match", etag)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 300 {
		if etag := resp.Header.Get("ETag"); etag != "" {
			c.session.StoreVersionToken(u, etag)
		}
	}
	return resp.StatusCode, respBody, nil
}

func (c *Client) observe(method, u string, status int, start time.Time, err error) {
	event := CallEvent{
		Method:    method,
		URL:       u,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		event.Err = err.Error()
	}
	c.observer.OnCallComplete(event)
}

// listResponse is the platform's standard list envelope.
type listResponse[T any] struct {
	PxResults     []T `json:"pxResults"`
	PxResultCount int `json:"pxResultCount"`
}

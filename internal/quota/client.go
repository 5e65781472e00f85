package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mlipski/usagewidget/internal/credentials"
)

const (
	defaultBaseURL = "https://api.anthropic.com/api/oauth/usage"
	betaHeader     = "oauth-2025-04-20"
	requestTimeout = 10 * time.Second

	// Error bodies are kept short; they end up in a widget tooltip.
	maxErrorBody = 512
)

type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindHTTPStatus
	KindDecode
)

// Error classifies a failed usage fetch.
type Error struct {
	Kind   ErrorKind
	Status int    // set for KindHTTPStatus
	Body   string // response excerpt for KindHTTPStatus
	cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("usage request failed: %v", e.cause)
	case KindHTTPStatus:
		if e.Body == "" {
			return fmt.Sprintf("usage API returned %d", e.Status)
		}
		return fmt.Sprintf("usage API returned %d: %s", e.Status, e.Body)
	case KindDecode:
		return fmt.Sprintf("parsing usage response: %v", e.cause)
	}
	return "usage fetch failed"
}

func (e *Error) Unwrap() error { return e.cause }

// AuthFailure reports whether the failure indicates a stale or revoked
// credential. The caller invalidates its session cache on these; transient
// transport errors must not force re-authentication.
func (e *Error) AuthFailure() bool {
	return e.Kind == KindHTTPStatus &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// Client fetches quota utilization from the Anthropic OAuth usage endpoint.
// One attempt per call; retries belong to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

// WithBaseURL points the client at a different endpoint; tests use httptest
// servers here.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues a single authenticated GET for the account's usage windows.
func (c *Client) Fetch(ctx context.Context, token credentials.Token) (*UsageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token.Expose())
	req.Header.Set("anthropic-beta", betaHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, Body: string(body)}
	}

	var usage UsageResponse
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return nil, &Error{Kind: KindDecode, cause: err}
	}
	return &usage, nil
}

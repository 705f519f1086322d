package overmind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// UpdateFetcher is the read side of the daemon API. Implemented by
// *Client; tests substitute fakes.
type UpdateFetcher interface {
	FetchUpdates(ctx context.Context, since int64) (BatchPayload, error)
}

// ProcessController is the write side: fire-and-forget process intents.
type ProcessController interface {
	ToggleSelect(ctx context.Context, name string) error
	ClearOutput(ctx context.Context, name string) error
	StartProcess(ctx context.Context, name string) error
	StopProcess(ctx context.Context, name string) error
	RestartProcess(ctx context.Context, name string) error
}

// Ensure Client implements both sides at compile time.
var (
	_ UpdateFetcher     = (*Client)(nil)
	_ ProcessController = (*Client)(nil)
)

// Client talks to the overmind daemon's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBind      = "127.0.0.1:4300"
	defaultUserAgent = "overmind-gui/0.1"
	requestTimeout   = 35 * time.Second // must outlast the 30s long-poll hold
)

// NewClient builds a Client from a host:port or URL bind value.
func NewClient(bind string) (*Client, error) {
	base, err := parseBaseURL(bind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchUpdates long-polls /api/updates for the next batch after the
// cursor. The daemon holds the request until lines are available or its
// hold window lapses, returning an empty batch in the latter case.
func (c *Client) FetchUpdates(ctx context.Context, since int64) (BatchPayload, error) {
	if c == nil {
		return BatchPayload{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if since > 0 {
		values.Set("since", strconv.FormatInt(since, 10))
	}
	rel := &url.URL{Path: "/api/updates", RawQuery: values.Encode()}
	var payload BatchPayload
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return BatchPayload{}, err
	}
	return payload, nil
}

// ToggleSelect flips a process's selection on the daemon side. Idempotent
// from the engine's perspective; no acknowledgement is required.
func (c *Client) ToggleSelect(ctx context.Context, name string) error {
	return c.intent(ctx, name, "toggle")
}

// ClearOutput asks the daemon to drop a process's buffered output.
func (c *Client) ClearOutput(ctx context.Context, name string) error {
	return c.intent(ctx, name, "clear")
}

// StartProcess starts a stopped process.
func (c *Client) StartProcess(ctx context.Context, name string) error {
	return c.intent(ctx, name, "start")
}

// StopProcess stops a running process.
func (c *Client) StopProcess(ctx context.Context, name string) error {
	return c.intent(ctx, name, "stop")
}

// RestartProcess restarts a process.
func (c *Client) RestartProcess(ctx context.Context, name string) error {
	return c.intent(ctx, name, "restart")
}

func (c *Client) intent(ctx context.Context, name, action string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("process name required")
	}
	rel := &url.URL{Path: "/api/process/"}
	rel = rel.JoinPath(url.PathEscape(name), action)
	return c.doURL(ctx, http.MethodPost, rel, nil)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(bind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(bind)
	if trimmed == "" {
		trimmed = defaultBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server bind %q: %w", bind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/session"
)

// Client represents an HTTP client for the movies API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	interceptors []RequestInterceptor
	notifier     *notify.Notifier
	logger       zerolog.Logger
}

// interceptedKey marks requests that already went through the interceptors
type interceptedKey struct{}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. It applies to a copy of the
// HTTP client, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithInterceptor appends an interceptor after the bearer interceptor
func WithInterceptor(i RequestInterceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, i) }
}

// WithNotifier replaces the default notifier
func WithNotifier(n *notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the logger used for request debug output
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// New creates the shared API client. Every request it sends carries the
// session credential from state when one is stored. New also builds the
// notifier shared by the views; see Notifier.
func New(baseURL string, state session.State, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		interceptors: []RequestInterceptor{Bearer(state)},
		notifier:     notify.New(notify.DefaultOptions()),
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// BaseURL returns the API address requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Notifier returns the shared success/error notifier
func (c *Client) Notifier() *notify.Notifier {
	return c.notifier
}

// URL resolves path against the base URL. Absolute URLs are returned as is.
func (c *Client) URL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// NewRequest builds a request for path and runs it through the interceptors.
// A non-nil body is sent as JSON. Construction failures are returned
// unchanged.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.intercept(req)
}

// intercept runs the interceptors on req and marks the result so Do does not
// run them twice
func (c *Client) intercept(req *http.Request) (*http.Request, error) {
	out, err := Apply(req, c.interceptors...)
	if err != nil {
		return nil, err
	}
	return out.WithContext(context.WithValue(out.Context(), interceptedKey{}, true)), nil
}

// Do sends req. Requests not built by NewRequest are run through the
// interceptors first, on a clone; an interceptor error is returned unchanged.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if done, _ := req.Context().Value(interceptedKey{}).(bool); !done {
		intercepted, err := c.intercept(req.Clone(req.Context()))
		if err != nil {
			return nil, err
		}
		req = intercepted
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("API request failed")
		return nil, err
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	return resp, nil
}

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed (status %d): %s", e.StatusCode, e.Body)
}

// Message extracts the "message" or "error" field of a JSON error body
func (e *StatusError) Message() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(e.StatusCode)
}

// doJSON sends in as JSON and decodes a 2xx response into out (if non-nil)
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := c.NewRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

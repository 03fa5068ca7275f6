// Package apiclient is the HTTP transport to the feedback API.
package apiclient

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

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/session"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "feedback-portal"
	maxErrorBody     = 64 << 10
)

// TokenSource yields the bearer token for the request in ctx, or "".
type TokenSource func(ctx context.Context) string

// Client sends requests to the feedback API. It attaches the caller's bearer
// token and reports rejected sessions through the unauthorized hook. It never
// retries.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	tokens         TokenSource
	onUnauthorized ports.UnauthorizedHook
	userAgent      string
	log            zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithOnUnauthorized registers the hook fired on every 401 response.
func WithOnUnauthorized(h ports.UnauthorizedHook) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: timeout},
		tokens:    session.TokenFromContext,
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// call describes one request.
type call struct {
	method string
	path   string
	form   url.Values
	json   any
	out    any
	// token overrides the token source when set.
	token string
	// login marks the credential exchange: a 401 means bad credentials and
	// must not invalidate the session.
	login bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	body, contentType, err := encodeBody(cl)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL.String()+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", cl.method, cl.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token := cl.token
	if token == "" && !cl.login && c.tokens != nil {
		token = c.tokens(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", cl.method).Str("path", cl.path).Msg("feedback api unreachable")
		return fmt.Errorf("%s %s: %w: %v", cl.method, cl.path, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("feedback api call")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if cl.out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: decode response: %w", cl.method, cl.path, err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := parseDetail(raw)
	statusErr := &StatusError{
		Method:     cl.method,
		Path:       cl.path,
		StatusCode: resp.StatusCode,
		Detail:     detail,
		kind:       kindFor(resp.StatusCode, detail, cl.login),
	}

	if resp.StatusCode == http.StatusUnauthorized && !cl.login && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return statusErr
}

func encodeBody(cl call) (io.Reader, string, error) {
	switch {
	case cl.form != nil:
		return strings.NewReader(cl.form.Encode()), "application/x-www-form-urlencoded", nil
	case cl.json != nil:
		b, err := json.Marshal(cl.json)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
	return nil, "", nil
}

// Ping reports whether the API answers at all. Any HTTP response counts as
// reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/openapi.json", nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w: %v", domain.ErrTransport, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Package fetch implements the lightweight acquisition path: a single HTTP
// GET with a browser-like identity, no script execution. It serves binary
// downloads (PDF) and static HTML pages where rendering is not wanted.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/readpipe/safeurl"
)

// BrowserUA is the user agent sent with plain requests. Some origins refuse
// obviously non-browser clients outright.
const BrowserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client performs single-shot HTTP GETs.
type Client struct {
	http     *http.Client
	ua       string
	maxBytes int64
	validate func(string) error
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the total request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.ua = ua }
}

// WithMaxBytes caps the response body size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// WithValidator replaces the URL validator. The default rejects non-HTTP
// schemes and private addresses.
func WithValidator(f func(string) error) Option {
	return func(c *Client) { c.validate = f }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. The default timeout is 30s; PDF callers raise it
// via WithTimeout since binary downloads run longer.
func New(opts ...Option) *Client {
	c := &Client{
		ua:       BrowserUA,
		maxBytes: safeurl.MaxBody,
		validate: safeurl.Validate,
		logger:   slog.Default(),
	}
	c.http = &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (%d)", len(via))
			}
			// Re-validate each hop so a redirect cannot reach a private address.
			return c.validate(req.URL.String())
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch GETs a URL and returns the raw body. Non-2xx statuses are errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.validate(url); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: http %d", resp.StatusCode)
	}

	body, err := safeurl.ReadAllLimited(resp.Body, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	c.logger.Debug("fetch: got",
		"url", url, "status", resp.StatusCode,
		"size", len(body), "duration_ms", time.Since(start).Milliseconds())

	return body, nil
}

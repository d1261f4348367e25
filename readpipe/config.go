package readpipe

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/readpipe/browser"
	"github.com/hazyhaar/readpipe/fetch"
)

// Fetcher retrieves the raw bytes behind a URL. The pipeline carries two
// implementations: browser.Renderer (script execution, final DOM) and
// fetch.Client (single GET). Selection is driven by the classifier's
// outcome and the caller's rendering preference, never by type inspection.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Observer is notified after every pipeline invocation, success or failure.
// Implementations must not block and must swallow their own errors; the
// pipeline never fails because of observation.
type Observer interface {
	ReadCompleted(ctx context.Context, res *ReadResult, elapsed time.Duration)
}

// Config configures a Pipeline.
type Config struct {
	// Renderer fetches HTML through a browsing engine. Default: browser.New().
	Renderer Fetcher

	// Plain fetches HTML with a single GET, used when rendering is declined.
	// Default: fetch.New() with a 30s timeout.
	Plain Fetcher

	// PDF fetches binary documents. Default: fetch.New() with a 60s timeout,
	// since PDF downloads run longer than page loads.
	PDF Fetcher

	// HTMLTimeout bounds one HTML acquisition (rendering or plain). Default: 30s.
	HTMLTimeout time.Duration

	// PDFTimeout bounds one PDF download. Default: 60s.
	PDFTimeout time.Duration

	// Observer receives completed results. Optional.
	Observer Observer

	// Logger for debug/error messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.HTMLTimeout <= 0 {
		c.HTMLTimeout = 30 * time.Second
	}
	if c.PDFTimeout <= 0 {
		c.PDFTimeout = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Renderer == nil {
		c.Renderer = browser.New(browser.WithNavTimeout(c.HTMLTimeout), browser.WithLogger(c.Logger))
	}
	if c.Plain == nil {
		c.Plain = fetch.New(fetch.WithTimeout(c.HTMLTimeout), fetch.WithLogger(c.Logger))
	}
	if c.PDF == nil {
		c.PDF = fetch.New(fetch.WithTimeout(c.PDFTimeout), fetch.WithLogger(c.Logger))
	}
}

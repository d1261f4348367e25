// Package browser implements the rendering acquisition path: a headless
// Chrome instance driven through Rod, with stealth patches applied so pages
// that probe for automation still serve their real content.
//
// Unlike a long-lived browser pool, each Render call launches its own
// Chrome and tears it down before returning. The pipeline is invoked per
// request and must never leak an engine on any exit path, so the lifetime
// of the process is scoped to the single call that needs it.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultUA matches a mainstream desktop Chrome build.
const DefaultUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Renderer fetches pages through a real browsing engine.
type Renderer struct {
	ua       string
	locale   string
	timezone string
	width    int
	height   int

	navTimeout  time.Duration
	idleTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithUserAgent overrides the emulated user agent.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) { r.ua = ua }
}

// WithLocale sets the emulated locale and timezone.
func WithLocale(locale, timezone string) Option {
	return func(r *Renderer) { r.locale, r.timezone = locale, timezone }
}

// WithNavTimeout bounds navigation plus load waiting.
func WithNavTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.navTimeout = d }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New creates a Renderer with desktop defaults: 1920x1080 viewport,
// en-US locale, 30s navigation timeout.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		ua:          DefaultUA,
		locale:      "en-US",
		timezone:    "America/New_York",
		width:       1920,
		height:      1080,
		navTimeout:  30 * time.Second,
		idleTimeout: 2 * time.Second,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Fetch renders a page and returns its final HTML after script execution
// and network idle. Chrome is launched for this call only and is closed on
// every path, including navigation failure and timeout.
func (r *Renderer) Fetch(ctx context.Context, url string) ([]byte, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-sandbox").
		Set("disable-dev-shm-usage")

	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	defer l.Cleanup()

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	defer b.Close()

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer page.Close()

	if err := r.emulate(page); err != nil {
		return nil, err
	}

	navCtx, cancel := context.WithTimeout(ctx, r.navTimeout)
	defer cancel()

	start := time.Now()
	if err := page.Context(navCtx).Navigate(url); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		return nil, fmt.Errorf("browser: wait load %s: %w", url, err)
	}

	// Wait for in-flight XHR to settle so client-side content is present.
	// Idle detection failing is not fatal: the DOM is already parsed.
	wait := page.Context(navCtx).WaitRequestIdle(r.idleTimeout, nil, nil, nil)
	wait()

	html, err := page.Context(navCtx).HTML()
	if err != nil {
		return nil, fmt.Errorf("browser: capture HTML: %w", err)
	}

	r.logger.Debug("browser: rendered",
		"url", url, "size", len(html),
		"duration_ms", time.Since(start).Milliseconds())

	return []byte(html), nil
}

// emulate applies the desktop identity: user agent, viewport, locale and
// timezone. Pages fingerprint all four to spot headless crawlers.
func (r *Renderer) emulate(page *rod.Page) error {
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      r.ua,
		AcceptLanguage: r.locale,
	}); err != nil {
		return fmt.Errorf("browser: set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.width,
		Height:            r.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("browser: set viewport: %w", err)
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: r.timezone}).Call(page); err != nil {
		return fmt.Errorf("browser: set timezone: %w", err)
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: r.locale}).Call(page); err != nil {
		return fmt.Errorf("browser: set locale: %w", err)
	}
	return nil
}

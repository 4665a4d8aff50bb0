package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"station-scraper/config"
)

// RodFetcher implements the Fetcher interface using rod (headless browser)
type RodFetcher struct {
	browser   *rod.Browser
	timeout   time.Duration
	userAgent string
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(cfg config.FetchConfig) (*RodFetcher, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")

	// Prefer a system Chrome/Chromium over downloading one
	for _, path := range []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		browser:   browser,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := rf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	p := page.Context(ctx)
	if rf.timeout > 0 {
		p = p.Timeout(rf.timeout)
	}

	if rf.userAgent != "" {
		if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: rf.userAgent}); err != nil {
			return "", fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	// Error pages render like any other page; the status of the main document
	// response decides. Redirect hops are not reported as responses.
	var status int
	waitDocument := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	slog.DebugContext(ctx, "fetching page with browser", "url", url)
	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}
	waitDocument()
	if err := statusError(url, status); err != nil {
		return "", err
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("failed to load %s: %w", url, err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	return html, nil
}

// statusError reports HTTP-level failures of the main document
func statusError(url string, status int) error {
	if status >= 400 {
		return fmt.Errorf("failed to fetch %s: status %d", url, status)
	}
	return nil
}

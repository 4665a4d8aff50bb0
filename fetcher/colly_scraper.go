package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gocolly/colly/v2"

	"station-scraper/config"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(cfg config.FetchConfig) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		// Line pages may list the same station twice
		colly.AllowURLRevisit(),
	)
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}

	return &CollyFetcher{
		collector: c,
	}
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	// A clone per call keeps callbacks of concurrent fetches apart
	c := cf.collector.Clone()
	c.Context = ctx

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		slog.DebugContext(ctx, "fetched page",
			"url", r.Request.URL.String(),
			"status", r.StatusCode,
			"bytes", len(r.Body))
	})
	c.OnError(func(r *colly.Response, err error) {
		slog.WarnContext(ctx, "error fetching page", "url", r.Request.URL.String(), "status", r.StatusCode, "err", err)
	})

	slog.DebugContext(ctx, "fetching page", "url", url)
	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("failed to visit %s: %w", url, err)
	}
	c.Wait()

	return string(body), nil
}

// Close implements ClosableFetcher; colly holds no resources
func (cf *CollyFetcher) Close() error {
	return nil
}

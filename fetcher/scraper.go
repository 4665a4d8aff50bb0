package fetcher

import (
	"context"
	"fmt"
	"strings"

	"station-scraper/config"
)

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the body of the page at url, following redirects.
	// Network and HTTP errors are returned, never panicked.
	Fetch(ctx context.Context, url string) (string, error)
}

// ClosableFetcher is a Fetcher holding resources such as a browser
type ClosableFetcher interface {
	Fetcher
	Close() error
}

// New creates the fetcher selected by cfg.Backend
func New(cfg config.FetchConfig) (ClosableFetcher, error) {
	switch cfg.Backend {
	case config.BackendColly, "":
		return NewCollyFetcher(cfg), nil
	case config.BackendRod:
		return NewRodFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch backend %q", cfg.Backend)
	}
}

// NormalizeURL prefixes https:// to URLs given without a scheme
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "//")
}

package parser

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"station-scraper/config"
)

// LineParser extracts station page links from a line page
type LineParser struct {
	links cascadia.Selector
	base  *url.URL
}

// NewLineParser compiles the station link selector and base URL of the site
func NewLineParser(site config.SiteConfig) (*LineParser, error) {
	sel, err := cascadia.Compile(site.StationLinkSelector)
	if err != nil {
		return nil, fmt.Errorf("invalid station link selector %q: %w", site.StationLinkSelector, err)
	}
	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", site.BaseURL, err)
	}

	return &LineParser{links: sel, base: base}, nil
}

// StationURLs returns the absolute URL of every station link in document order.
// Duplicates are kept.
func (p *LineParser) StationURLs(htmlContent string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var urls []string
	doc.FindMatcher(p.links).Each(func(i int, s *goquery.Selection) {
		// Entities such as &amp; are already decoded by the HTML parser
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			slog.Warn("skipping malformed station link", "href", href, "err", err)
			return
		}
		urls = append(urls, p.base.ResolveReference(ref).String())
	})

	return urls, nil
}

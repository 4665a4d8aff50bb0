// Package converter turns danskejernbaner.dk station and line pages into
// QuickStatements batches.
package converter

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"station-scraper/config"
	"station-scraper/fetcher"
	"station-scraper/models"
	"station-scraper/parser"
	"station-scraper/quickstatements"
)

var lineItemPattern = regexp.MustCompile(`^Q\d+$`)

// Request selects what to convert. LineURL takes precedence over StationURL.
type Request struct {
	LineURL    string
	LineID     string
	StationURL string
}

// Converter resolves line pages and extracts station pages
type Converter struct {
	fetcher     fetcher.Fetcher
	lines       *parser.LineParser
	stations    *parser.StationParser
	vocab       config.Vocabulary
	timeout     time.Duration
	concurrency int
}

// New creates a Converter fetching pages through f
func New(f fetcher.Fetcher, cfg *config.Config) (*Converter, error) {
	lines, err := parser.NewLineParser(cfg.Site)
	if err != nil {
		return nil, fmt.Errorf("failed to create line parser: %w", err)
	}
	stations, err := parser.NewStationParser(cfg.Site)
	if err != nil {
		return nil, fmt.Errorf("failed to create station parser: %w", err)
	}

	concurrency := cfg.Fetch.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Converter{
		fetcher:     f,
		lines:       lines,
		stations:    stations,
		vocab:       cfg.Vocabulary,
		timeout:     cfg.Fetch.Timeout,
		concurrency: concurrency,
	}, nil
}

// Convert runs a request and returns the statement text, or an "Error: ..." line.
// An empty request yields an empty result.
func (c *Converter) Convert(ctx context.Context, req Request) string {
	switch {
	case strings.TrimSpace(req.LineURL) != "":
		lineID := strings.TrimSpace(req.LineID)
		if lineID != "" && !lineItemPattern.MatchString(lineID) {
			return ErrorLine(ErrInvalidLineItem)
		}
		out, err := c.ConvertLine(ctx, req.LineURL, lineID)
		if err != nil {
			return ErrorLine(err)
		}
		return out
	case strings.TrimSpace(req.StationURL) != "":
		out, err := c.ExtractStation(ctx, req.StationURL, "")
		if err != nil {
			return ErrorLine(err)
		}
		return out
	default:
		return ""
	}
}

// ConvertLine extracts every station of a line page. Each station block, or
// its error line, is followed by a newline; a failing station does not stop
// the others.
func (c *Converter) ConvertLine(ctx context.Context, lineURL, lineID string) (string, error) {
	urls, err := c.ResolveLine(ctx, lineURL)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "converting line", "url", lineURL, "stations", len(urls), "line_id", lineID)

	blocks := make([]string, len(urls))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			out, err := c.ExtractStation(ctx, u, lineID)
			if err != nil {
				slog.WarnContext(ctx, "station conversion failed", "url", u, "err", err)
				out = ErrorLine(err)
			}
			blocks[i] = out + "\n"
			return nil
		})
	}
	// Failures are rendered into blocks, so Wait never reports an error.
	g.Wait()

	return strings.Join(blocks, ""), nil
}

// ResolveLine fetches a line page and returns its station URLs in document order
func (c *Converter) ResolveLine(ctx context.Context, lineURL string) ([]string, error) {
	lineURL = fetcher.NormalizeURL(lineURL)

	content, err := c.fetch(ctx, lineURL)
	if err != nil || strings.TrimSpace(content) == "" {
		return nil, &FetchError{URL: lineURL, Reason: "no line content", Err: err}
	}

	urls, err := c.lines.StationURLs(content)
	if err != nil {
		return nil, fmt.Errorf("line %s: %w", lineURL, err)
	}
	if len(urls) == 0 {
		return nil, &ExtractionError{URL: lineURL, Field: "stations", Reason: "no stations found"}
	}

	return urls, nil
}

// ExtractStation converts one station page. An empty url yields empty output.
func (c *Converter) ExtractStation(ctx context.Context, url, lineID string) (string, error) {
	station, err := c.Station(ctx, url, lineID)
	if err != nil {
		return "", err
	}
	if station == nil {
		return "", nil
	}
	return c.StationBatch(station).String(), nil
}

// Station fetches a station page and extracts its fields.
// It returns nil, nil for an empty url.
func (c *Converter) Station(ctx context.Context, url, lineID string) (*models.Station, error) {
	url = fetcher.NormalizeURL(url)
	if url == "" {
		return nil, nil
	}

	content, err := c.fetch(ctx, url)
	if err != nil || strings.TrimSpace(content) == "" {
		return nil, &FetchError{URL: url, Reason: "no content", Err: err}
	}

	doc, err := parser.ParseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", url, err)
	}

	name, ok := c.stations.Name(doc)
	if !ok {
		return nil, &ExtractionError{URL: url, Field: "name", Reason: "no name"}
	}
	coords, ok := c.stations.Coordinates(doc)
	if !ok {
		return nil, &ExtractionError{URL: url, Field: "coordinates", Reason: "no coordinates"}
	}

	return &models.Station{
		Name:        name,
		Opened:      c.stations.Opened(doc),
		Closed:      c.stations.Closed(doc),
		Coordinates: coords,
		SourceURL:   url,
		LineID:      lineID,
	}, nil
}

// StationBatch serializes a station as one CREATE block
func (c *Converter) StationBatch(st *models.Station) *quickstatements.Batch {
	v := c.vocab
	b := &quickstatements.Batch{}

	b.Create()
	for _, lang := range v.Languages {
		b.Label(lang.Code, st.Name)
	}
	for _, lang := range v.Languages {
		b.Description(lang.Code, lang.Description)
	}
	b.SetWithQualifier(v.InstanceOf, quickstatements.Item(v.RailwayStation),
		v.ReferenceURL, quickstatements.String(escapeHTML(st.SourceURL)))
	b.Set(v.Country, quickstatements.Item(v.CountryItem))
	if st.LineID != "" {
		b.Set(v.PartOfLine, quickstatements.Item(st.LineID))
	}
	if st.Opened != nil {
		b.Set(v.StartTime, quickstatements.Raw(st.Opened.String()))
	}
	if st.Closed != nil {
		b.Set(v.EndTime, quickstatements.Raw(st.Closed.String()))
	}
	b.Set(v.CoordinateLocation, quickstatements.Raw(st.Coordinates.Literal()))

	return b
}

func (c *Converter) fetch(ctx context.Context, url string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.fetcher.Fetch(ctx, url)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeHTML escapes &, quotes, < and > with &quot; and &#039; for the quotes
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

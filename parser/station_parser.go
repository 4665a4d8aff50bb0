package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"station-scraper/config"
	"station-scraper/models"
)

var (
	datePattern        = regexp.MustCompile(`^(\d+)(?:\.(\d\d)\.(\d\d))?$`)
	coordinatesPattern = regexp.MustCompile(`^(\d+\.\d+),(\d+\.\d+)$`)
	titleExpr          = xpath.MustCompile(`//title`)
)

// StationParser holds the extraction rules for a station page.
// Each rule is independent and reports whether its field was found.
type StationParser struct {
	titlePattern    *regexp.Regexp
	openedExpr      *xpath.Expr
	closedExpr      *xpath.Expr
	coordinatesExpr *xpath.Expr
}

// NewStationParser compiles the rules for the table labels of the site
func NewStationParser(site config.SiteConfig) (*StationParser, error) {
	p := &StationParser{
		titlePattern: regexp.MustCompile(`(?s)^(.*?)` + regexp.QuoteMeta(site.TitleSuffix)),
	}

	var err error
	if p.openedExpr, err = rowValueExpr(site.OpenedLabel); err != nil {
		return nil, err
	}
	if p.closedExpr, err = rowValueExpr(site.ClosedLabel); err != nil {
		return nil, err
	}
	if p.coordinatesExpr, err = rowValueExpr(site.CoordinatesLabel); err != nil {
		return nil, err
	}

	return p, nil
}

// rowValueExpr selects the second cell of the table row whose first cell is label
func rowValueExpr(label string) (*xpath.Expr, error) {
	lit, err := xpathLiteral(label)
	if err != nil {
		return nil, err
	}
	expr, err := xpath.Compile(fmt.Sprintf("//tr[normalize-space(td[1])=%s]/td[2]", lit))
	if err != nil {
		return nil, fmt.Errorf("invalid row label %q: %w", label, err)
	}
	return expr, nil
}

func xpathLiteral(s string) (string, error) {
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'", nil
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	default:
		return "", fmt.Errorf("row label %q mixes quote characters", s)
	}
}

// ParseDocument parses a fetched page for the extraction rules
func ParseDocument(htmlContent string) (*html.Node, error) {
	doc, err := htmlquery.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Name extracts the station name from the page title, e.g. "Hobro, en artikel om ..."
func (p *StationParser) Name(doc *html.Node) (string, bool) {
	title := htmlquery.QuerySelector(doc, titleExpr)
	if title == nil {
		return "", false
	}
	m := p.titlePattern.FindStringSubmatch(htmlquery.InnerText(title))
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

// Opened extracts the opening date, nil when the row is absent or unreadable
func (p *StationParser) Opened(doc *html.Node) *models.PartialDate {
	return p.date(doc, p.openedExpr)
}

// Closed extracts the closing date, nil when the row is absent or unreadable
func (p *StationParser) Closed(doc *html.Node) *models.PartialDate {
	return p.date(doc, p.closedExpr)
}

func (p *StationParser) date(doc *html.Node, expr *xpath.Expr) *models.PartialDate {
	cell := htmlquery.QuerySelector(doc, expr)
	if cell == nil {
		return nil
	}
	d, ok := ParseDate(htmlquery.InnerText(cell))
	if !ok {
		return nil
	}
	return d
}

// Coordinates extracts the GPS coordinates cell
func (p *StationParser) Coordinates(doc *html.Node) (models.Coordinates, bool) {
	cell := htmlquery.QuerySelector(doc, p.coordinatesExpr)
	if cell == nil {
		return models.Coordinates{}, false
	}
	return ParseCoordinates(htmlquery.InnerText(cell))
}

// ParseDate parses a date cell: a bare year ("1850") or year.month.day ("1850.05.17")
func ParseDate(text string) (*models.PartialDate, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, false
	}

	d := &models.PartialDate{Year: m[1]}

	if m[2] != "" {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		d.Month = &month
		d.Day = &day
	}

	return d, true
}

// ParseCoordinates parses "lat,lon" in decimal degrees
func ParseCoordinates(text string) (models.Coordinates, bool) {
	m := coordinatesPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Latitude: m[1], Longitude: m[2]}, true
}

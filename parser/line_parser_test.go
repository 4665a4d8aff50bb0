package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"station-scraper/config"
)

func newLineParser(t *testing.T) *LineParser {
	t.Helper()
	p, err := NewLineParser(config.Default().Site)
	require.NoError(t, err)
	return p
}

func TestStationURLs(t *testing.T) {
	page := `<html><body><table>
<tr><td><a class='text-underline-hover' href='vis.station.php?FRA=RD&amp;ID=1'>Randers</a></td></tr>
<tr><td><a class='text-underline-hover' href='vis.bane.php?ID=12'>Bane</a></td></tr>
<tr><td><a class='text-underline-hover' href='vis.station.php?FRA=HO'>Hobro</a></td></tr>
<tr><td><span><a class='text-underline-hover' href='vis.station.php?FRA=XX'>Nested</a></span></td></tr>
<tr><td><a class='text-primary' href='vis.station.php?FRA=OLD'>Old layout</a></td></tr>
<tr><td><a class='text-underline-hover' href='vis.station.php?FRA=AB'>Aalborg</a></td></tr>
<tr><td><a class='text-underline-hover' href='vis.station.php?FRA=HO'>Hobro again</a></td></tr>
</table></body></html>`

	urls, err := newLineParser(t).StationURLs(page)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://danskejernbaner.dk/vis.station.php?FRA=RD&ID=1",
		"https://danskejernbaner.dk/vis.station.php?FRA=HO",
		"https://danskejernbaner.dk/vis.station.php?FRA=AB",
		"https://danskejernbaner.dk/vis.station.php?FRA=HO",
	}, urls)
}

func TestStationURLsNoLinks(t *testing.T) {
	urls, err := newLineParser(t).StationURLs(`<html><body><p>Ingen stationer</p></body></html>`)
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestStationURLsAlternativeSelector(t *testing.T) {
	site := config.Default().Site
	site.StationLinkSelector = `td > a.text-primary[href^="vis.station.php"]`
	site.BaseURL = "https://example.org/baner/"
	p, err := NewLineParser(site)
	require.NoError(t, err)

	urls, err := p.StationURLs(`<table><tr><td><a class="text-primary" href="vis.station.php?FRA=OLD">Old</a></td></tr></table>`)
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.org/baner/vis.station.php?FRA=OLD"}, urls)
}

func TestNewLineParserInvalidSelector(t *testing.T) {
	site := config.Default().Site
	site.StationLinkSelector = "td >> a["
	_, err := NewLineParser(site)
	require.Error(t, err)
}

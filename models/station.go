package models

import "fmt"

// Station represents the facts scraped from one station page
type Station struct {
	Name        string
	Opened      *PartialDate // nil when the page has no opening date
	Closed      *PartialDate // nil while the station is still in operation
	Coordinates Coordinates
	SourceURL   string
	LineID      string // Wikidata item of the railway line, supplied by the caller
}

// PartialDate is a date known to year, month or day precision.
// Year keeps the digits found on the page. Day is only ever set together with Month.
type PartialDate struct {
	Year  string
	Month *int
	Day   *int
}

// Wikidata time precision codes
const (
	PrecisionYear = 9
	PrecisionDay  = 11
)

// Precision returns the Wikidata precision code of the date.
// Month without day still counts as day precision, matching the site's data.
func (d PartialDate) Precision() int {
	if d.Month == nil {
		return PrecisionYear
	}
	return PrecisionDay
}

// String formats the date as a QuickStatements time value, e.g. +1850-05-17T00:00:00Z/11
func (d PartialDate) String() string {
	month, day := 0, 0
	if d.Month != nil {
		month = *d.Month
	}
	if d.Day != nil {
		day = *d.Day
	}
	return fmt.Sprintf("+%s-%02d-%02dT00:00:00Z/%d", d.Year, month, day, d.Precision())
}

// Coordinates keeps latitude and longitude as the decimal text found on the page
type Coordinates struct {
	Latitude  string
	Longitude string
}

// Literal formats the coordinates as a QuickStatements globe coordinate
func (c Coordinates) Literal() string {
	return "@" + c.Latitude + "/" + c.Longitude
}

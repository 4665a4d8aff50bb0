package converter

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// FetchError reports that a page could not be retrieved or was empty
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	return e.Reason
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionError reports that a mandatory field is missing from a fetched page
type ExtractionError struct {
	URL    string
	Field  string // name, coordinates or stations
	Reason string
}

func (e *ExtractionError) Error() string {
	return e.Reason
}

// ErrInvalidLineItem is returned for line identifiers that are not Wikidata items
var ErrInvalidLineItem = errors.New("invalid line item")

// ErrorLine renders err as the single line shown to users, e.g. "Error: No coordinates"
func ErrorLine(err error) string {
	return "Error: " + upperFirst(err.Error())
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

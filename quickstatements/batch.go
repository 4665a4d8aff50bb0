// Package quickstatements builds QuickStatements v1 batch text.
//
// A batch is a list of tab-separated lines. CREATE starts a new item and
// every following LAST line adds a label, description or claim to it.
package quickstatements

import (
	"strings"
)

// Value is anything that can appear in a value column
type Value interface {
	Literal() string
}

// String is a quoted text value
type String string

func (s String) Literal() string {
	return `"` + clean(string(s)) + `"`
}

// Item is a bare entity reference such as Q35
type Item string

func (i Item) Literal() string {
	return clean(string(i))
}

// Raw is a preformatted value (time or globe coordinate) written as is
type Raw string

func (r Raw) Literal() string {
	return clean(string(r))
}

var cleaner = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// clean keeps a value on a single line and inside its own column
func clean(s string) string {
	return cleaner.Replace(s)
}

// Batch accumulates statements in insertion order
type Batch struct {
	lines []string
}

// Create starts a new item; following statements apply to it
func (b *Batch) Create() {
	b.lines = append(b.lines, "CREATE")
}

// Label sets the label of the last created item in the given language
func (b *Batch) Label(lang, text string) {
	b.Set("L"+lang, String(text))
}

// Description sets the description of the last created item in the given language
func (b *Batch) Description(lang, text string) {
	b.Set("D"+lang, String(text))
}

// Set adds a claim to the last created item
func (b *Batch) Set(property string, value Value) {
	b.lines = append(b.lines, strings.Join([]string{"LAST", property, value.Literal()}, "\t"))
}

// SetWithQualifier adds a claim carrying one qualifier or source
func (b *Batch) SetWithQualifier(property string, value Value, qualifier string, qualifierValue Value) {
	b.lines = append(b.lines, strings.Join([]string{
		"LAST", property, value.Literal(), qualifier, qualifierValue.Literal(),
	}, "\t"))
}

// Len returns the number of lines
func (b *Batch) Len() int {
	return len(b.lines)
}

// Lines returns a copy of the lines
func (b *Batch) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String renders the batch with every line newline-terminated
func (b *Batch) String() string {
	var sb strings.Builder
	for _, line := range b.lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Package export renders ordered log entry sequences into interchangeable
// byte encodings: plain text, JSON, JSON Lines, delimited CSV, and a gzip
// wrapper around any of them.
package export

import (
	"fmt"
	"strings"
)

// Delimiter is the field separator of a CSV export.
type Delimiter rune

const (
	Comma     Delimiter = ','
	Semicolon Delimiter = ';'
	Tab       Delimiter = '\t'
	Pipe      Delimiter = '|'
)

// ParseDelimiter converts a delimiter name to a Delimiter.
func ParseDelimiter(name string) (Delimiter, error) {
	switch strings.ToLower(name) {
	case "comma":
		return Comma, nil
	case "semicolon":
		return Semicolon, nil
	case "tab":
		return Tab, nil
	case "pipe":
		return Pipe, nil
	default:
		return 0, fmt.Errorf("unknown delimiter %q (expected comma, semicolon, tab, or pipe)", name)
	}
}

// Format is a tagged description of an output encoding. Gzip is
// self-referential: it wraps any other format, including another Gzip
// (which simply compresses twice).
type Format interface {
	// Suffix returns the filename extension for the format, without a
	// leading dot. Wrapped formats compose, e.g. "json.gz".
	Suffix() string

	// ContentType returns the MIME type of the encoded payload.
	ContentType() string

	isFormat()
}

// PlainText renders one bracketed line per entry.
type PlainText struct{}

// JSON renders a single pretty-printed array of entry objects.
type JSON struct{}

// JSONLines renders one compact entry object per line.
type JSONLines struct{}

// CSV renders a delimited table with a header row.
type CSV struct {
	Delimiter Delimiter
}

// Gzip compresses the rendering of the wrapped format.
type Gzip struct {
	Inner Format
}

func (PlainText) isFormat() {}
func (JSON) isFormat()      {}
func (JSONLines) isFormat() {}
func (CSV) isFormat()       {}
func (Gzip) isFormat()      {}

func (PlainText) Suffix() string { return "txt" }
func (JSON) Suffix() string      { return "json" }
func (JSONLines) Suffix() string { return "jsonl" }
func (CSV) Suffix() string       { return "csv" }
func (g Gzip) Suffix() string    { return g.Inner.Suffix() + ".gz" }

func (PlainText) ContentType() string { return "text/plain" }
func (JSON) ContentType() string      { return "application/json" }
func (JSONLines) ContentType() string { return "application/x-ndjson" }
func (CSV) ContentType() string       { return "text/csv" }
func (Gzip) ContentType() string      { return "application/gzip" }

// Name returns a short description of the format for error messages.
func Name(f Format) string {
	switch ft := f.(type) {
	case PlainText:
		return "text"
	case JSON:
		return "json"
	case JSONLines:
		return "jsonl"
	case CSV:
		return "csv"
	case Gzip:
		return Name(ft.Inner) + "+gzip"
	default:
		return fmt.Sprintf("%T", f)
	}
}

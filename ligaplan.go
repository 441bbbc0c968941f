// Package ligaplan provides a fluent API for extracting match schedules and
// hall directories from league schedule PDFs.
//
// Basic usage:
//
//	matches, warnings, err := ligaplan.Open("spielplan.pdf").Schedule()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", ligaplan.FormatWarnings(warnings))
//	}
//
// With options:
//
//	matches, _, err := ligaplan.Open("spielplan.pdf").
//	    HostMarker("Kiefholz").
//	    Seasons("2023", "2024").
//	    Schedule()
//
// Schedule returns records whose venue is the hall's address. Matches returns
// them with the raw hall code, and Halls returns the directory itself.
//
// For advanced use cases, the lower-level reader, layout, schedule, halls and
// resolver packages are also available.
package ligaplan

import (
	"errors"
	"io"

	"github.com/kiefholz/ligaplan/format"
	"github.com/kiefholz/ligaplan/reader"
)

var (
	// ErrNoPages is returned for a document without pages.
	ErrNoPages = errors.New("document has no pages")

	// ErrUnsupportedFormat is returned for inputs that are not PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Open opens a schedule file and returns an Extractor for fluent
// configuration. The file is opened lazily by the first operation and closed
// by terminal operations such as Schedule().
//
// Example:
//
//	matches, warnings, err := ligaplan.Open("spielplan.pdf").Schedule()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// FromSource creates an Extractor over an already opened fragment source.
// The caller is responsible for closing the source.
//
// Example:
//
//	src := reader.NewMemory(page1, page2)
//	matches, _, err := ligaplan.FromSource(src).Schedule()
func FromSource(src reader.Source) *Extractor {
	return &Extractor{
		source:       src,
		format:       format.PDF,
		sourceOpened: true,
		options:      defaultOptions(),
	}
}

// FromReader creates an Extractor over PDF data of the given size.
func FromReader(r io.ReaderAt, size int64) *Extractor {
	src, err := reader.NewPDF(r, size)
	if err != nil {
		return &Extractor{err: err, options: defaultOptions()}
	}
	return FromSource(src)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := ligaplan.Must(ligaplan.Open("spielplan.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustValue is a helper that wraps a terminal operation returning
// (T, []Warning, error) and panics if the error is non-nil. Warnings are
// discarded.
//
// Example:
//
//	matches := ligaplan.MustValue(ligaplan.Open("spielplan.pdf").Schedule())
func MustValue[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

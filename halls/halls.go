// Package halls builds the hall directory from the rows that follow the
// "Hallenverzeichnis" heading of a schedule document.
//
// The directory table alternates one row per hall code and one row per
// address. Rows are paired by a parity counter: even rows (0-based) carry a
// code, odd rows the address of the code before them. A trailing code
// without an address row is dropped and reported in [Result.Dangling].
package halls

import (
	"regexp"
	"strings"

	"github.com/kiefholz/ligaplan/model"
)

// Sentinel is the heading that opens the hall directory. The heading row
// itself is not part of the directory.
const Sentinel = "Hallenverzeichnis"

var codePattern = regexp.MustCompile(`[äöüÄÖÜß\w]+`)

// Result is the outcome of one directory extraction.
type Result struct {
	Directory model.HallDirectory

	// Dangling is the trailing code left without an address, if any
	Dangling string

	// Skipped counts address rows dropped because their code row held no code
	Skipped int

	// Rows counts the directory rows seen
	Rows int
}

// Extractor pairs directory rows into a HallDirectory.
type Extractor struct {
	separator string
}

// Option configures an Extractor
type Option func(*Extractor)

// WithSeparator sets the row separator trimmed from addresses (default: ",")
func WithSeparator(sep string) Option {
	return func(e *Extractor) {
		e.separator = sep
	}
}

// New creates an extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{separator: ","}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract pairs rows, in reading order, into a directory. rows must already
// be windowed to the directory (heading excluded).
func (e *Extractor) Extract(rows []model.Row) Result {
	p := e.NewPairer()
	for _, r := range rows {
		p.Add(r.Text)
	}
	return p.Result()
}

// Pairer is the per-document pairing state.
type Pairer struct {
	sep  string
	n    int
	code string
	res  Result
}

// NewPairer starts a fresh pairing for one document.
func (e *Extractor) NewPairer() *Pairer {
	return &Pairer{
		sep: e.separator,
		res: Result{Directory: make(model.HallDirectory)},
	}
}

// Add consumes the next directory row.
func (p *Pairer) Add(row string) {
	even := p.n%2 == 0
	p.n++
	p.res.Rows++

	if even {
		p.code = Code(row)
		return
	}

	if p.code == "" {
		p.res.Skipped++
		return
	}
	p.res.Directory[p.code] = Address(row, p.sep)
	p.code = ""
}

// Result returns the directory built so far.
func (p *Pairer) Result() Result {
	res := p.res
	if p.n%2 == 1 {
		res.Dangling = p.code
	}
	return res
}

// Code returns the first word of a code row.
func Code(row string) string {
	return codePattern.FindString(row)
}

// Address returns an address row without its trailing separators and
// surrounding spaces.
func Address(row, sep string) string {
	row = strings.TrimSpace(row)
	if sep != "" {
		for strings.HasSuffix(row, sep) {
			row = strings.TrimSpace(strings.TrimSuffix(row, sep))
		}
	}
	return row
}

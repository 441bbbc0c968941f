package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/kiefholz/ligaplan/model"
	"github.com/kiefholz/ligaplan/text"
)

var (
	// ErrPageRange is returned for a page number outside 1..PageCount().
	ErrPageRange = errors.New("page out of range")

	// ErrClosed is returned when a closed PDF is read.
	ErrClosed = errors.New("pdf is closed")
)

// Source yields the positioned fragments of a document one page at a time.
type Source interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Page returns the fragments of page n (1-indexed) in content stream
	// order.
	Page(n int) ([]model.Fragment, error)
}

// PDF is a Source backed by a PDF document.
type PDF struct {
	closer io.Closer
	closed bool
	doc    *pdf.Reader
	merger *text.Merger
}

// Option configures a PDF source
type Option func(*PDF)

// WithMerger sets the merger used to join glyphs into fragments
// (default: text.NewMerger())
func WithMerger(m *text.Merger) Option {
	return func(p *PDF) {
		if m != nil {
			p.merger = m
		}
	}
}

// Open opens the PDF file at filename. The caller must Close it.
func Open(filename string, opts ...Option) (*PDF, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	p, err := NewPDF(file, info.Size(), opts...)
	if err != nil {
		file.Close()
		return nil, err
	}
	p.closer = file
	return p, nil
}

// NewPDF reads a PDF of the given size from r.
func NewPDF(r io.ReaderAt, size int64, opts ...Option) (p *PDF, err error) {
	// The decoder panics on some malformed trailers
	defer func() {
		if rec := recover(); rec != nil {
			p, err = nil, fmt.Errorf("failed to parse pdf: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}

	p = &PDF{doc: doc, merger: text.NewMerger()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Close releases the underlying file, if the source owns one. A PDF read
// from a caller's io.ReaderAt stays usable.
func (p *PDF) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	p.closed = true
	return err
}

// PageCount returns the number of pages in the document. It is 0 once the
// file is closed or when the page tree cannot be read.
func (p *PDF) PageCount() (n int) {
	if p.closed {
		return 0
	}
	defer func() {
		if rec := recover(); rec != nil {
			n = 0
		}
	}()
	return p.doc.NumPage()
}

// Page returns the fragments of page n.
func (p *PDF) Page(n int) ([]model.Fragment, error) {
	if p.closed {
		return nil, fmt.Errorf("page %d: %w", n, ErrClosed)
	}
	if n < 1 || n > p.PageCount() {
		return nil, fmt.Errorf("page %d of %d: %w", n, p.PageCount(), ErrPageRange)
	}

	glyphs, err := p.glyphs(n)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	return p.merger.Merge(n, glyphs), nil
}

// glyphs decodes the content stream of page n.
func (p *PDF) glyphs(n int) (glyphs []text.Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			glyphs, err = nil, fmt.Errorf("failed to decode content: %v", rec)
		}
	}()

	page := p.doc.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	glyphs = make([]text.Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, text.Glyph{
			S:        t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			Font:     t.Font,
			FontSize: t.FontSize,
		})
	}
	return glyphs, nil
}

// Memory is a Source over fragments held in memory.
type Memory struct {
	pages [][]model.Fragment
}

// NewMemory creates a source with one entry per page. Each fragment's Page is
// set to its 1-indexed position.
func NewMemory(pages ...[]model.Fragment) *Memory {
	m := &Memory{pages: make([][]model.Fragment, len(pages))}
	for i, frags := range pages {
		cp := make([]model.Fragment, len(frags))
		copy(cp, frags)
		for j := range cp {
			cp[j].Page = i + 1
		}
		m.pages[i] = cp
	}
	return m
}

// PageCount returns the number of pages.
func (m *Memory) PageCount() int {
	return len(m.pages)
}

// Page returns the fragments of page n.
func (m *Memory) Page(n int) ([]model.Fragment, error) {
	if n < 1 || n > len(m.pages) {
		return nil, fmt.Errorf("page %d of %d: %w", n, len(m.pages), ErrPageRange)
	}
	return m.pages[n-1], nil
}

// ReadAll returns the fragments of every page of src, in page order.
func ReadAll(src Source) ([][]model.Fragment, error) {
	pages := make([][]model.Fragment, 0, src.PageCount())
	for n := 1; n <= src.PageCount(); n++ {
		frags, err := src.Page(n)
		if err != nil {
			return nil, err
		}
		pages = append(pages, frags)
	}
	return pages, nil
}

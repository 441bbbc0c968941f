package layout

import (
	"sort"

	"github.com/kiefholz/ligaplan/model"
)

const (
	// DefaultTolerance is the coordinate distance below which two fragments
	// share a row.
	DefaultTolerance = 2

	// DefaultSeparator is appended after every fragment's text in a row.
	DefaultSeparator = ","
)

// Clusterer groups fragments into rows keyed by quantized vertical position.
// State is scoped to one document; use a new Clusterer per document.
type Clusterer struct {
	totalPages int
	tolerance  int
	separator  string

	page int
	keys []int              // current page keys in insertion order
	cur  map[int]*model.Row // current page rows by key coordinate
	rows []*model.Row       // all rows in creation order
}

// ClusterOption configures a Clusterer
type ClusterOption func(*Clusterer)

// WithTolerance sets the coordinate distance below which fragments share a
// row (default: 2, minimum: 1)
func WithTolerance(tolerance int) ClusterOption {
	return func(c *Clusterer) {
		if tolerance < 1 {
			tolerance = 1
		}
		c.tolerance = tolerance
	}
}

// WithSeparator sets the string appended after each fragment (default: ",")
func WithSeparator(sep string) ClusterOption {
	return func(c *Clusterer) {
		c.separator = sep
	}
}

// NewClusterer creates a clusterer for a document of totalPages pages.
func NewClusterer(totalPages int, opts ...ClusterOption) *Clusterer {
	c := &Clusterer{
		totalPages: totalPages,
		tolerance:  DefaultTolerance,
		separator:  DefaultSeparator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeginPage starts a fresh row set for page (1-indexed). Rows of earlier pages
// are final from this point.
func (c *Clusterer) BeginPage(page int) {
	c.page = page
	c.keys = c.keys[:0]
	c.cur = make(map[int]*model.Row)
}

// Add appends f to the row it belongs to on the current page. Without a
// preceding BeginPage the fragment's own page is begun.
func (c *Clusterer) Add(f model.Fragment) {
	if c.cur == nil {
		page := f.Page
		if page < 1 {
			page = 1
		}
		c.BeginPage(page)
	}

	key := c.match(f.QuantizedY())
	row, ok := c.cur[key]
	if !ok {
		row = &model.Row{Key: model.RowKey{
			Page: c.page,
			Y:    key,
			Rank: c.rank(c.page),
		}}
		c.keys = append(c.keys, key)
		c.cur[key] = row
		c.rows = append(c.rows, row)
	}

	row.Text += f.Text + c.separator
	row.Fragments = append(row.Fragments, f)
}

// match returns the first key of the current page within tolerance of y, or
// y itself.
func (c *Clusterer) match(y int) int {
	for _, k := range c.keys {
		d := k - y
		if d < 0 {
			d = -d
		}
		if d < c.tolerance {
			return k
		}
	}
	return y
}

// rank is the page's reverse rank, totalPages - page + 1.
func (c *Clusterer) rank(page int) int {
	total := c.totalPages
	if total < page {
		total = page
	}
	return total - page + 1
}

// Rows returns copies of every row seen so far in reading order: pages
// ascending, rows top to bottom.
func (c *Clusterer) Rows() []model.Row {
	out := make([]model.Row, len(c.rows))
	for i, r := range c.rows {
		out[i] = *r
		out[i].Fragments = append([]model.Fragment(nil), r.Fragments...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key.Before(out[j].Key)
	})
	return out
}

// Cluster groups pages of fragments into rows. pages[i] holds the fragments
// of page i+1 in stream order. Each call uses fresh state.
func Cluster(pages [][]model.Fragment, totalPages int, opts ...ClusterOption) []model.Row {
	if totalPages < len(pages) {
		totalPages = len(pages)
	}
	c := NewClusterer(totalPages, opts...)
	for i, frags := range pages {
		c.BeginPage(i + 1)
		for _, f := range frags {
			c.Add(f)
		}
	}
	return c.Rows()
}

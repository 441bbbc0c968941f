package model

import "math"

// Fragment is one visually distinct text run on a page.
type Fragment struct {
	Text     string
	Page     int     // 1-indexed page number
	X, Y     float64 // Y grows upwards (PDF user space)
	Width    float64
	FontSize float64
}

// QuantizedY returns floor(Y), the coordinate rows are bucketed on.
func (f Fragment) QuantizedY() int {
	return int(math.Floor(f.Y))
}

// RowKey identifies a reconstructed row. Y is the bucket coordinate shared by
// all fragments of the row and Rank is the page's reverse rank
// (totalPages - Page + 1).
type RowKey struct {
	Page int
	Y    int
	Rank int
}

// Value returns the combined integer key Y * Rank. For equal Y the earlier
// page has the larger value.
func (k RowKey) Value() int {
	return k.Y * k.Rank
}

// Before reports whether k is read before other: pages in ascending order,
// rows within a page from top to bottom.
func (k RowKey) Before(other RowKey) bool {
	if k.Page != other.Page {
		return k.Page < other.Page
	}
	return k.Y > other.Y
}

// Row is the accumulated text of every fragment that landed on the same key.
type Row struct {
	Key RowKey

	// Text is each fragment's text followed by the row separator, in
	// encounter order.
	Text string

	// Fragments holds the source fragments in encounter order.
	Fragments []Fragment
}

// Package htmldoc parses HTML documents into table rows.
package htmldoc

// ParsedTable represents a table extracted from HTML.
type ParsedTable struct {
	Header []Row // rows of thead
	Body   []Row // rows of tbody
}

// Row is one tr element.
type Row struct {
	Cells []TableCell
}

// TableCell represents a cell in an HTML table.
type TableCell struct {
	// Text is the cell's text content, trimmed
	Text string

	// ChildText is the text of the cell's first element child, such as the
	// link wrapping a player name. Empty if the cell has no element child.
	ChildText string

	IsHeader bool
	RowSpan  int
	ColSpan  int
}

// HasData reports whether the row has at least one td cell.
func (r Row) HasData() bool {
	for _, c := range r.Cells {
		if !c.IsHeader {
			return true
		}
	}
	return false
}

// Cell returns cell i, or an empty cell if the row is shorter.
func (r Row) Cell(i int) TableCell {
	if i < 0 || i >= len(r.Cells) {
		return TableCell{}
	}
	return r.Cells[i]
}

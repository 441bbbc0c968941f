package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Reader provides access to the tables of an HTML document.
type Reader struct {
	doc    *html.Node
	title  string
	tables []*ParsedTable
}

// Open opens an HTML file for reading.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader. The input must be UTF-8.
func OpenReader(r io.Reader) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{doc: doc}
	if t := findElement(doc, "title"); t != nil {
		reader.title = getTextContent(t)
	}
	reader.collectTables(doc)

	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	return nil
}

// Title returns the document title.
func (r *Reader) Title() string {
	return r.title
}

// Tables returns the document's tables in document order. Nested tables are
// listed after the table containing them.
func (r *Reader) Tables() []*ParsedTable {
	return r.tables
}

// BodyRows returns every table > tbody > tr row of the document, in order.
// The parser inserts tbody for rows placed directly in a table, so those are
// included.
func (r *Reader) BodyRows() []Row {
	var rows []Row
	for _, t := range r.tables {
		rows = append(rows, t.Body...)
	}
	return rows
}

func (r *Reader) collectTables(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "table" {
		r.tables = append(r.tables, parseTable(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.collectTables(c)
	}
}

// parseTable extracts a table from an HTML table element.
func parseTable(tableNode *html.Node) *ParsedTable {
	table := &ParsedTable{}

	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead":
			table.Header = append(table.Header, parseTableRows(c, true)...)
		case "tbody":
			table.Body = append(table.Body, parseTableRows(c, false)...)
		}
	}

	return table
}

// parseTableRows parses rows within thead or tbody.
func parseTableRows(section *html.Node, isHeader bool) []Row {
	var rows []Row
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			rows = append(rows, parseTableRow(c, isHeader))
		}
	}
	return rows
}

// parseTableRow parses a single table row.
func parseTableRow(tr *html.Node, isHeader bool) Row {
	var row Row

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}

		cell := TableCell{
			Text:     getTextContent(c),
			IsHeader: isHeader || c.Data == "th",
			RowSpan:  1,
			ColSpan:  1,
		}
		if child := firstElementChild(c); child != nil {
			cell.ChildText = getTextContent(child)
		}

		for _, attr := range c.Attr {
			switch attr.Key {
			case "rowspan":
				if v, err := strconv.Atoi(attr.Val); err == nil && v > 0 {
					cell.RowSpan = v
				}
			case "colspan":
				if v, err := strconv.Atoi(attr.Val); err == nil && v > 0 {
					cell.ColSpan = v
				}
			}
		}

		row.Cells = append(row.Cells, cell)
	}

	return row
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// getTextContent extracts all text content from a node and its descendants,
// with runs of whitespace collapsed to one space.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.Join(strings.Fields(result.String()), " ")
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		// Skip script/style content
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
}

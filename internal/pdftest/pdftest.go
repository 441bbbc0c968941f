// Package pdftest writes small text-only PDFs for tests.
//
// Every text is drawn in Helvetica, a standard font without a Widths array,
// so decoders report a zero advance width for each glyph.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Text is one string drawn at (X, Y) in PDF user space.
type Text struct {
	X, Y float64
	S    string
}

// Line lays out texts left to right on baseline y, 80 units apart starting
// at x = 40.
func Line(y float64, texts ...string) []Text {
	out := make([]Text, len(texts))
	for i, s := range texts {
		out[i] = Text{X: 40 + float64(i)*80, Y: y, S: s}
	}
	return out
}

// Page concatenates lines into the texts of one page.
func Page(lines ...[]Text) []Text {
	var out []Text
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}

// Build returns a PDF with one page per element of pages, all texts drawn
// at the given font size.
func Build(fontSize float64, pages ...[]Text) []byte {
	n := len(pages)
	fontID := 3 + 2*n
	offsets := make([]int, fontID+1)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	object := func(id int, body string) {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	object(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i, texts := range pages {
		pageID, contentID := 3+2*i, 4+2*i
		object(pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontID, contentID))

		var content strings.Builder
		for _, t := range texts {
			fmt.Fprintf(&content, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n",
				num(fontSize), num(t.X), num(t.Y), escape(t.S))
		}
		object(contentID, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	object(fontID, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", fontID+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= fontID; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", fontID+1, xref)
	return buf.Bytes()
}

// Write builds a PDF and stores it at path.
func Write(path string, fontSize float64, pages ...[]Text) error {
	return os.WriteFile(path, Build(fontSize, pages...), 0644)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// escape quotes the characters that are special in PDF literal strings.
func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

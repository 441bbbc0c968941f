package reader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiefholz/ligaplan/internal/pdftest"
	"github.com/kiefholz/ligaplan/model"
)

// Compile-time interface checks
var (
	_ Source = (*PDF)(nil)
	_ Source = (*Memory)(nil)
)

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestOpen_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	if err := os.WriteFile(path, []byte("<html><body>no pdf</body></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); err == nil {
		t.Error("expected error for non-PDF content")
	}
}

func TestNewPDF_Garbage(t *testing.T) {
	data := []byte("this is not a pdf")
	if _, err := NewPDF(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for garbage input")
	}
}

func writePDF(t *testing.T, pages ...[]pdftest.Text) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.pdf")
	if err := pdftest.Write(path, 9, pages...); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen_Fragments(t *testing.T) {
	path := writePDF(t,
		pdftest.Page(
			pdftest.Line(760, "Datum,", "Zeit"),
			pdftest.Line(740, "Sa", "SG Kiefholz 1"),
		),
		pdftest.Page(pdftest.Line(700, "Hallenverzeichnis")),
	)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if n := src.PageCount(); n != 2 {
		t.Fatalf("PageCount() = %d, want 2", n)
	}

	got, err := src.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	// Helvetica has no Widths, so every glyph of a run starts at the same X
	// and the run is merged into one fragment of zero width.
	want := []model.Fragment{
		{Text: "Datum,", Page: 1, X: 40, Y: 760, FontSize: 9},
		{Text: "Zeit", Page: 1, X: 120, Y: 760, FontSize: 9},
		{Text: "Sa", Page: 1, X: 40, Y: 740, FontSize: 9},
		{Text: "SG Kiefholz 1", Page: 1, X: 120, Y: 740, FontSize: 9},
	}
	if len(got) != len(want) {
		t.Fatalf("Page(1) returned %d fragments, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	second, err := src.Page(2)
	if err != nil {
		t.Fatalf("Page(2): %v", err)
	}
	if len(second) != 1 || second[0].Text != "Hallenverzeichnis" || second[0].Page != 2 || second[0].Y != 700 {
		t.Errorf("Page(2) = %+v", second)
	}

	if _, err := src.Page(3); !errors.Is(err, ErrPageRange) {
		t.Errorf("Page(3) error = %v, want ErrPageRange", err)
	}
}

func TestNewPDF_Bytes(t *testing.T) {
	data := pdftest.Build(10, pdftest.Page(pdftest.Line(500, "(KH1)")))

	src, err := NewPDF(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewPDF: %v", err)
	}
	frags, err := src.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(frags) != 1 || frags[0].Text != "(KH1)" || frags[0].FontSize != 10 {
		t.Errorf("Page(1) = %+v", frags)
	}

	// No file to release: the source stays usable
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if src.PageCount() != 1 {
		t.Error("a PDF over a caller's reader should survive Close")
	}
}

func TestPDF_Closed(t *testing.T) {
	src, err := Open(writePDF(t, pdftest.Page(pdftest.Line(700, "Datum,"))))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if n := src.PageCount(); n != 0 {
		t.Errorf("PageCount() after Close = %d, want 0", n)
	}
	if _, err := src.Page(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Page(1) after Close error = %v, want ErrClosed", err)
	}
}

func TestMemory_Pages(t *testing.T) {
	src := NewMemory(
		[]model.Fragment{{Text: "Datum,", Y: 700}, {Text: "Heim", Y: 700}},
		nil,
		[]model.Fragment{{Text: "Gast", Y: 500, Page: 99}},
	)

	if src.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", src.PageCount())
	}

	first, err := src.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	if len(first) != 2 || first[0].Page != 1 || first[1].Page != 1 {
		t.Errorf("Page(1) = %+v", first)
	}

	empty, err := src.Page(2)
	if err != nil {
		t.Fatalf("Page(2): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Page(2) should be empty, got %d fragments", len(empty))
	}

	third, err := src.Page(3)
	if err != nil {
		t.Fatalf("Page(3): %v", err)
	}
	if third[0].Page != 3 {
		t.Errorf("page number not assigned: %d", third[0].Page)
	}
}

func TestMemory_DoesNotAliasInput(t *testing.T) {
	in := []model.Fragment{{Text: "Datum,"}}
	src := NewMemory(in)

	in[0].Text = "changed"
	got, _ := src.Page(1)
	if got[0].Text != "Datum," {
		t.Errorf("source aliased caller slice: %q", got[0].Text)
	}
	if in[0].Page != 0 {
		t.Error("caller slice was modified")
	}
}

func TestMemory_PageRange(t *testing.T) {
	src := NewMemory([]model.Fragment{{Text: "x"}})

	for _, n := range []int{0, -1, 2} {
		if _, err := src.Page(n); !errors.Is(err, ErrPageRange) {
			t.Errorf("Page(%d) error = %v, want ErrPageRange", n, err)
		}
	}
}

func TestReadAll(t *testing.T) {
	src := NewMemory(
		[]model.Fragment{{Text: "a"}},
		[]model.Fragment{{Text: "b"}, {Text: "c"}},
	)

	pages, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(pages) != 2 || len(pages[0]) != 1 || len(pages[1]) != 2 {
		t.Errorf("ReadAll returned %v", pages)
	}

	empty, err := ReadAll(NewMemory())
	if err != nil || len(empty) != 0 {
		t.Errorf("ReadAll(empty) = %v, %v", empty, err)
	}
}

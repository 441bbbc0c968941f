package format

import (
	"bytes"
	"errors"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{HTML, "HTML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, ".pdf"},
		{HTML, ".html"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"spielplan.pdf", PDF},
		{"SPIELPLAN.PDF", PDF},
		{"raw_player_men_2022-09-01.html", HTML},
		{"page.htm", HTML},
		{"notes.txt", Unknown},
		{"noext", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"pdf", "%PDF-1.4\n", PDF},
		{"doctype", "<!DOCTYPE html><html>", HTML},
		{"lowercase html", "\n  <html lang=\"de\">", HTML},
		{"xhtml", `<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`, HTML},
		{"bom", "\ufeff<!doctype html>", HTML},
		{"short", "%P", Unknown},
		{"empty", "", Unknown},
		{"text", "Datum,Zeit", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFromMagic(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	f, err := DetectFromReader(bytes.NewReader([]byte("%PDF-1.7")))
	if err != nil || f != PDF {
		t.Errorf("got %v, %v", f, err)
	}

	f, err = DetectFromReader(bytes.NewReader(nil))
	if err != nil || f != Unknown {
		t.Errorf("empty: got %v, %v", f, err)
	}

	_, err = DetectFromReader(failingReader{})
	if err == nil {
		t.Error("expected read error")
	}
}

type failingReader struct{}

func (failingReader) ReadAt([]byte, int64) (int, error) {
	return 0, errors.New("boom")
}

func TestFromContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want Format
	}{
		{"application/pdf", PDF},
		{"text/html; charset=iso-8859-1", HTML},
		{"TEXT/HTML", HTML},
		{"application/octet-stream", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := FromContentType(tt.ct); got != tt.want {
			t.Errorf("FromContentType(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}

package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares decoded text for pattern matching. Umlauts may arrive
// decomposed (a + U+0308), which the letter classes of the field patterns do
// not match, so text is composed to NFC. Non-breaking spaces become spaces
// and surrounding whitespace is trimmed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u2007', '\u202f':
			return ' '
		case '\u00ad', '\u200b', '\ufeff':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

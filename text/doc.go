// Package text turns the glyph stream of a decoded PDF page into positioned
// text fragments.
//
// # Merging
//
// Decoders such as github.com/ledongthuc/pdf report one entry per glyph.
// The [Merger] joins consecutive glyphs on the same baseline into one run and
// starts a new fragment when the gap reaches a column gap:
//
//	fragments := text.NewMerger().Merge(page, glyphs)
//
// Spaces are inserted for word gaps the stream does not carry itself,
// following the word-level spacing rule of half a space width.
//
// # Normalization
//
// [Normalize] composes text to NFC so that umlauts and ß match the field
// patterns regardless of how the producer encoded them.
package text

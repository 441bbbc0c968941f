package text

import (
	"strings"

	"github.com/kiefholz/ligaplan/model"
)

// Glyph is a single positioned glyph (or short string) as reported by a
// PDF content stream decoder.
type Glyph struct {
	S        string
	X, Y     float64
	W        float64 // advance width
	Font     string
	FontSize float64
}

// MergeConfig holds the thresholds used to merge glyphs into fragments.
// Ratios are relative to the glyph's font size.
type MergeConfig struct {
	// LineTolerance is the baseline difference above which two glyphs are
	// on different lines (default: 0.2)
	LineTolerance float64

	// ColumnGap is the horizontal gap at which a run ends and a new
	// fragment starts (default: 1.0)
	ColumnGap float64

	// SpaceGap is the gap above which a space is inserted between glyphs of
	// the same run (default: 0.12, half the width of a typical space)
	SpaceGap float64

	// SplitOnFont starts a new fragment whenever the font changes
	// (default: true)
	SplitOnFont bool
}

// DefaultMergeConfig returns the thresholds used for league schedules.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		LineTolerance: 0.2,
		ColumnGap:     1.0,
		SpaceGap:      0.12,
		SplitOnFont:   true,
	}
}

// Merger merges glyph streams into fragments.
type Merger struct {
	config MergeConfig
}

// NewMerger creates a merger with default configuration
func NewMerger() *Merger {
	return &Merger{config: DefaultMergeConfig()}
}

// NewMergerWithConfig creates a merger with custom configuration
func NewMergerWithConfig(config MergeConfig) *Merger {
	return &Merger{config: config}
}

// run is a fragment under construction.
type run struct {
	sb       strings.Builder
	x, y     float64
	width    float64
	font     string
	fontSize float64
}

func (r *run) end() float64 { return r.x + r.width }

// Merge merges glyphs, in content stream order, into fragments for page.
// Fragment order follows the order in which runs start in the stream.
// Text is NFC-normalized and trimmed; whitespace-only runs are dropped.
func (m *Merger) Merge(page int, glyphs []Glyph) []model.Fragment {
	var fragments []model.Fragment
	var cur *run

	flush := func() {
		if cur == nil {
			return
		}
		txt := Normalize(cur.sb.String())
		if txt != "" {
			fragments = append(fragments, model.Fragment{
				Text:     txt,
				Page:     page,
				X:        cur.x,
				Y:        cur.y,
				Width:    cur.width,
				FontSize: cur.fontSize,
			})
		}
		cur = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}

		if cur != nil && !m.continues(cur, g) {
			flush()
		}

		if cur == nil {
			cur = &run{x: g.X, y: g.Y, font: g.Font, fontSize: g.FontSize}
			cur.sb.WriteString(g.S)
			cur.width = g.W
			continue
		}

		gap := g.X - cur.end()
		if m.needsSpace(cur, g, gap) {
			cur.sb.WriteByte(' ')
		}
		cur.sb.WriteString(g.S)
		if end := g.X + g.W; end > cur.end() {
			cur.width = end - cur.x
		}
	}
	flush()

	return fragments
}

// continues reports whether g extends the current run.
func (m *Merger) continues(cur *run, g Glyph) bool {
	size := cur.fontSize
	if size <= 0 {
		size = g.FontSize
	}
	if size <= 0 {
		size = 10
	}

	if abs(g.Y-cur.y) > size*m.config.LineTolerance {
		return false
	}
	if m.config.SplitOnFont && g.Font != cur.font {
		return false
	}

	gap := g.X - cur.end()
	// Jumping back means the stream moved to another cell
	if gap < -size*0.5 {
		return false
	}
	return gap < size*m.config.ColumnGap
}

// needsSpace decides whether a space separates g from the run, mirroring the
// word-level spacing rule: half a space width, unless the stream already
// carries whitespace.
func (m *Merger) needsSpace(cur *run, g Glyph, gap float64) bool {
	s := cur.sb.String()
	if len(s) > 0 && isWhitespace(s[len(s)-1]) {
		return false
	}
	if isWhitespace(g.S[0]) {
		return false
	}
	return gap >= cur.fontSize*m.config.SpaceGap
}

// Merge merges glyphs with the default configuration.
func Merge(page int, glyphs []Glyph) []model.Fragment {
	return NewMerger().Merge(page, glyphs)
}

// isWhitespace checks if a byte is a whitespace character
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

package ligaplan

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal extraction issue.
type WarningKind int

const (
	// WarnNoSentinel means a table heading was never found, so its window
	// stayed closed
	WarnNoSentinel WarningKind = iota

	// WarnDanglingHall means the directory had an odd number of rows and its
	// last code was dropped
	WarnDanglingHall

	// WarnSkippedHall means an address row followed a row without a code
	WarnSkippedHall

	// WarnUnresolvedVenue means a hall code was not in the directory
	WarnUnresolvedVenue

	// WarnIncompleteRecord means one or more fields of a record did not match
	WarnIncompleteRecord

	// WarnEmptyPage means a selected page yielded no text
	WarnEmptyPage
)

// String returns a string representation of the kind
func (k WarningKind) String() string {
	switch k {
	case WarnNoSentinel:
		return "no-sentinel"
	case WarnDanglingHall:
		return "dangling-hall"
	case WarnSkippedHall:
		return "skipped-hall"
	case WarnUnresolvedVenue:
		return "unresolved-venue"
	case WarnIncompleteRecord:
		return "incomplete-record"
	case WarnEmptyPage:
		return "empty-page"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found during extraction. Results returned
// alongside warnings are usable but may be incomplete.
type Warning struct {
	Kind    WarningKind
	Page    int // 0 when not tied to a page
	Record  int // index of the affected record, -1 when not tied to one
	Message string
}

// String returns the warning as a single line
func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(w.Kind.String())
	if w.Page > 0 {
		fmt.Fprintf(&sb, " (page %d)", w.Page)
	}
	if w.Record >= 0 {
		fmt.Fprintf(&sb, " (record %d)", w.Record)
	}
	sb.WriteString(": ")
	sb.WriteString(w.Message)
	return sb.String()
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// CountWarnings returns the number of warnings of each kind.
func CountWarnings(warnings []Warning) map[WarningKind]int {
	counts := make(map[WarningKind]int)
	for _, w := range warnings {
		counts[w.Kind]++
	}
	return counts
}

func newWarning(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Record: -1, Message: fmt.Sprintf(format, args...)}
}

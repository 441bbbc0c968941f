package ligaplan

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/kiefholz/ligaplan/format"
	"github.com/kiefholz/ligaplan/halls"
	"github.com/kiefholz/ligaplan/layout"
	"github.com/kiefholz/ligaplan/model"
	"github.com/kiefholz/ligaplan/reader"
	"github.com/kiefholz/ligaplan/resolver"
	"github.com/kiefholz/ligaplan/schedule"
)

// extractedPage holds the fragments of a single page.
type extractedPage struct {
	number    int
	fragments []model.Fragment
}

// Extractor provides a fluent interface for extracting schedules.
// Each configuration method returns a new Extractor instance, making it
// safe to branch configurations and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	source reader.Source
	closer io.Closer

	// Lifecycle
	ownsSource   bool // true if we opened the source and should close it
	sourceOpened bool // true if source has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		format:       e.format,
		source:       e.source,
		closer:       e.closer,
		ownsSource:   e.ownsSource,
		sourceOpened: e.sourceOpened,
		options:      e.options.clone(),
		err:          e.err,
		warnings:     append([]Warning(nil), e.warnings...),
	}
}

// ensureSource opens the source if not already open.
func (e *Extractor) ensureSource() error {
	if e.sourceOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	if e.format == format.Unknown {
		f, err := sniff(e.filename)
		if err != nil {
			return fmt.Errorf("failed to detect format: %w", err)
		}
		e.format = f
	}
	if e.format != format.PDF {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, e.format)
	}

	r, err := reader.Open(e.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.source = r
	e.closer = r
	e.ownsSource = true
	e.sourceOpened = true
	return nil
}

func sniff(filename string) (format.Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return format.Unknown, err
	}
	defer f.Close()
	return format.DetectFromReader(f)
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if !e.ownsSource || e.closer == nil {
		return nil
	}
	err := e.closer.Close()
	e.closer = nil
	e.source = nil
	e.ownsSource = false
	e.sourceOpened = false
	return err
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	matches, _, err := ligaplan.Open("plan.pdf").Pages(1, 2).Matches()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Tolerance sets the vertical distance below which fragments share a row
// (default: 2).
func (e *Extractor) Tolerance(units int) *Extractor {
	newExt := e.clone()
	if units < 1 {
		newExt.err = fmt.Errorf("tolerance must be at least 1, got %d", units)
		return newExt
	}
	newExt.options.tolerance = units
	return newExt
}

// HostMarker sets the club name that marks match rows (default: "Kiefholz").
//
// Example:
//
//	matches, _, err := ligaplan.Open("plan.pdf").HostMarker("Treptow").Schedule()
func (e *Extractor) HostMarker(marker string) *Extractor {
	newExt := e.clone()
	if strings.TrimSpace(marker) == "" {
		newExt.err = fmt.Errorf("host marker must not be empty")
		return newExt
	}
	newExt.options.hostMarker = marker
	return newExt
}

// Seasons replaces the years by which date fields are recognized
// (default: 2022, 2023).
func (e *Extractor) Seasons(years ...string) *Extractor {
	newExt := e.clone()
	if len(years) == 0 {
		newExt.err = fmt.Errorf("at least one season is required")
		return newExt
	}
	newExt.options.seasons = append([]string(nil), years...)
	return newExt
}

// ScheduleMarker sets the heading that opens the schedule table
// (default: "Datum,"). The heading row is part of the window.
func (e *Extractor) ScheduleMarker(marker string) *Extractor {
	newExt := e.clone()
	newExt.options.scheduleMarker = marker
	return newExt
}

// StopScheduleAt ends the schedule window at the first fragment containing
// marker. By default the window runs to the end of the document.
//
// Example:
//
//	ext := ligaplan.Open("plan.pdf").StopScheduleAt(halls.Sentinel)
func (e *Extractor) StopScheduleAt(marker string) *Extractor {
	newExt := e.clone()
	newExt.options.scheduleStop = marker
	return newExt
}

// HallMarker sets the heading that opens the hall directory
// (default: "Hallenverzeichnis"). The heading row is not part of the
// directory.
func (e *Extractor) HallMarker(marker string) *Extractor {
	newExt := e.clone()
	newExt.options.hallMarker = marker
	return newExt
}

// KeepUnresolvedCodes leaves hall codes missing from the directory in the
// venue field instead of clearing it.
func (e *Extractor) KeepUnresolvedCodes() *Extractor {
	newExt := e.clone()
	newExt.options.keepUnresolved = true
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the total number of pages in the document.
// This does NOT close the source: terminal operations on this Extractor (and
// on Extractors derived from it afterwards) reuse it, and the caller releases
// it with Close.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureSource(); err != nil {
		return 0, err
	}
	return e.source.PageCount(), nil
}

// Fragments returns the fragments of the selected pages in page and stream
// order. This is a terminal operation that closes the source.
func (e *Extractor) Fragments() ([]model.Fragment, []Warning, error) {
	e = e.clone()
	pages, _, err := e.load()
	if err != nil {
		return nil, nil, err
	}

	var all []model.Fragment
	for _, p := range pages {
		all = append(all, p.fragments...)
	}
	return all, e.warnings, nil
}

// Rows returns every reconstructed row of the selected pages, without any
// table window, in reading order. This is a terminal operation.
//
// Example:
//
//	rows, _, err := ligaplan.Open("plan.pdf").Pages(1).Rows()
//	for _, r := range rows {
//	    fmt.Println(r.Key.Page, r.Key.Y, r.Text)
//	}
func (e *Extractor) Rows() ([]model.Row, []Warning, error) {
	e = e.clone()
	pages, total, err := e.load()
	if err != nil {
		return nil, nil, err
	}
	return e.cluster(pages, total, nil), e.warnings, nil
}

// Matches returns the match records of the schedule table with the hall
// code in the venue field. This is a terminal operation.
func (e *Extractor) Matches() ([]model.MatchRecord, []Warning, error) {
	e = e.clone()
	pages, total, err := e.load()
	if err != nil {
		return nil, nil, err
	}
	records := e.extractMatches(pages, total)
	return records, e.warnings, nil
}

// Halls returns the hall directory of the document. This is a terminal
// operation.
func (e *Extractor) Halls() (model.HallDirectory, []Warning, error) {
	e = e.clone()
	pages, total, err := e.load()
	if err != nil {
		return nil, nil, err
	}
	res := e.extractHalls(pages, total)
	return res.Directory, e.warnings, nil
}

// Schedule returns the match records with every hall code replaced by the
// hall's address. Codes missing from the directory leave the venue empty
// and produce a warning. This is a terminal operation.
//
// Example:
//
//	matches, warnings, err := ligaplan.Open("plan.pdf").Schedule()
func (e *Extractor) Schedule() ([]model.MatchRecord, []Warning, error) {
	e = e.clone()
	pages, total, err := e.load()
	if err != nil {
		return nil, nil, err
	}

	records := e.extractMatches(pages, total)
	dir := e.extractHalls(pages, total).Directory

	resolved, misses := resolver.New(dir,
		resolver.WithKeepCode(e.options.keepUnresolved),
	).Resolve(records)

	for _, m := range misses {
		w := newWarning(WarnUnresolvedVenue, "hall code %q not in directory", m.Code)
		if m.Code == "" {
			w.Message = "record has no hall code"
		}
		w.Record = m.Index
		e.warnings = append(e.warnings, w)
	}

	return resolved, e.warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// load opens the source, reads the selected pages and closes the source
// again if it opened it. A source inherited from the parent Extractor (see
// PageCount) is left open for the parent's owner. Terminal operations call
// it on a clone so warnings do not leak between calls.
func (e *Extractor) load() ([]extractedPage, int, error) {
	if e.err != nil {
		return nil, 0, e.err
	}
	inherited := e.sourceOpened
	if err := e.ensureSource(); err != nil {
		return nil, 0, err
	}
	if !inherited {
		defer e.Close()
	}

	total := e.source.PageCount()
	if total == 0 {
		return nil, 0, ErrNoPages
	}

	numbers, err := e.resolvePages(total)
	if err != nil {
		return nil, 0, err
	}

	pages := make([]extractedPage, 0, len(numbers))
	for _, n := range numbers {
		frags, err := e.source.Page(n)
		if err != nil {
			return nil, 0, err
		}
		if len(frags) == 0 {
			w := newWarning(WarnEmptyPage, "no text on page")
			w.Page = n
			e.warnings = append(e.warnings, w)
		}
		pages = append(pages, extractedPage{number: n, fragments: frags})
	}
	return pages, total, nil
}

// resolvePages validates the selected page numbers. If no pages are
// selected, returns all pages.
func (e *Extractor) resolvePages(total int) ([]int, error) {
	if len(e.options.pages) == 0 {
		numbers := make([]int, total)
		for i := range numbers {
			numbers[i] = i + 1
		}
		return numbers, nil
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, p := range e.options.pages {
		if p < 1 || p > total {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, total)
		}
		if !seen[p] {
			seen[p] = true
			numbers = append(numbers, p)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}

// cluster builds the rows of the given pages from the fragments that pass
// gate. A nil gate passes everything.
func (e *Extractor) cluster(pages []extractedPage, total int, gate *layout.Gate) []model.Row {
	c := layout.NewClusterer(total, layout.WithTolerance(e.options.tolerance))
	for _, p := range pages {
		c.BeginPage(p.number)
		for _, f := range p.fragments {
			if gate == nil || gate.Pass(f.Text) {
				c.Add(f)
			}
		}
	}
	return c.Rows()
}

func (e *Extractor) extractMatches(pages []extractedPage, total int) []model.MatchRecord {
	var gateOpts []layout.GateOption
	if e.options.scheduleStop != "" {
		gateOpts = append(gateOpts, layout.WithClose(e.options.scheduleStop))
	}
	gate := layout.NewGate(e.options.scheduleMarker, layout.IncludeTrigger, gateOpts...)
	rows := e.cluster(pages, total, gate)

	if !gate.Opened() {
		e.warnings = append(e.warnings,
			newWarning(WarnNoSentinel, "schedule heading %q not found", e.options.scheduleMarker))
		return nil
	}

	records := schedule.New(
		schedule.WithHostMarker(e.options.hostMarker),
		schedule.WithSeasons(e.options.seasons...),
	).Extract(rows)

	for i, r := range records {
		if missing := r.Missing(); len(missing) > 0 {
			w := newWarning(WarnIncompleteRecord, "missing %s", strings.Join(missing, ", "))
			w.Record = i
			e.warnings = append(e.warnings, w)
		}
	}
	return records
}

func (e *Extractor) extractHalls(pages []extractedPage, total int) halls.Result {
	gate := layout.NewGate(e.options.hallMarker, layout.ExcludeTrigger)
	rows := e.cluster(pages, total, gate)

	if !gate.Opened() {
		e.warnings = append(e.warnings,
			newWarning(WarnNoSentinel, "hall directory heading %q not found", e.options.hallMarker))
	}

	res := halls.New().Extract(rows)
	if res.Dangling != "" {
		e.warnings = append(e.warnings,
			newWarning(WarnDanglingHall, "hall code %q has no address row", res.Dangling))
	}
	if res.Skipped > 0 {
		e.warnings = append(e.warnings,
			newWarning(WarnSkippedHall, "%d address rows without a hall code", res.Skipped))
	}
	return res
}

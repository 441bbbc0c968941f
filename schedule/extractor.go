package schedule

import (
	"strings"

	"github.com/kiefholz/ligaplan/model"
)

const (
	// Sentinel is the date column header that opens the schedule table.
	Sentinel = "Datum,"

	// DefaultHostMarker identifies rows that are matches of the host club.
	DefaultHostMarker = "Kiefholz"
)

// DefaultSeasons are the years a date field is recognized by.
var DefaultSeasons = []string{"2022", "2023"}

// Accumulator carries the extraction state of one document.
type Accumulator struct {
	// Date is the current date, carried forward onto undated rows
	Date string

	// Records holds the emitted records in row order
	Records []model.MatchRecord

	// Rows counts the rows seen
	Rows int
}

// Extractor turns schedule rows into match records.
type Extractor struct {
	marker  string
	seasons []string

	date  Rule
	dated Cascade // time rules after a date block
	plain Cascade // time rules for undated rows
	venue Rule
	home  Rule
	guest Rule
}

// Option configures an Extractor
type Option func(*Extractor)

// WithHostMarker sets the substring that marks a match row
// (default: "Kiefholz")
func WithHostMarker(marker string) Option {
	return func(e *Extractor) {
		if marker != "" {
			e.marker = marker
		}
	}
}

// WithSeasons sets the years that identify a date field
// (default: 2022, 2023)
func WithSeasons(years ...string) Option {
	return func(e *Extractor) {
		var keep []string
		for _, y := range years {
			if y = strings.TrimSpace(y); y != "" {
				keep = append(keep, y)
			}
		}
		if len(keep) > 0 {
			e.seasons = keep
		}
	}
}

// New creates an extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		marker:  DefaultHostMarker,
		seasons: DefaultSeasons,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.date = DateRule(e.seasons)
	e.dated = Cascade{DatedTimeRule(), TimeRule()}
	e.plain = Cascade{TimeRule()}
	e.venue = VenueRule()
	e.home = TeamRule("home")
	e.guest = TeamRule("guest")
	return e
}

// HostMarker returns the marker identifying match rows.
func (e *Extractor) HostMarker() string {
	return e.marker
}

// Seasons returns the recognized season years.
func (e *Extractor) Seasons() []string {
	return append([]string(nil), e.seasons...)
}

// Parse decomposes one row. date is the current date; the returned date is
// the row's own date if it has one, else the one passed in. ok reports
// whether the row is a match row.
func (e *Extractor) Parse(row, date string) (rec model.MatchRecord, next string, ok bool) {
	rest := row
	dated := false
	if d, r, matched := e.date.Apply(rest); matched {
		date, rest, dated = d, r, true
	}

	if !strings.Contains(row, e.marker) {
		return model.MatchRecord{}, date, false
	}

	rec.Date = date
	if dated {
		rec.Time, rest, _ = e.dated.Apply(rest)
	} else {
		rec.Time, rest, _ = e.plain.Apply(rest)
	}
	rec.Venue, rest, _ = e.venue.Apply(rest)
	rec.Home, rest, _ = e.home.Apply(rest)
	rec.Guest, _, _ = e.guest.Apply(rest)

	return rec, date, true
}

// Step feeds one row through the extractor and returns the updated
// accumulator.
func (e *Extractor) Step(acc Accumulator, row string) Accumulator {
	rec, date, ok := e.Parse(row, acc.Date)
	acc.Date = date
	acc.Rows++
	if ok {
		acc.Records = append(acc.Records, rec)
	}
	return acc
}

// Extract runs every row of one document, in order, through a fresh
// accumulator and returns the records.
func (e *Extractor) Extract(rows []model.Row) []model.MatchRecord {
	var acc Accumulator
	for _, r := range rows {
		acc = e.Step(acc, r.Text)
	}
	return acc.Records
}

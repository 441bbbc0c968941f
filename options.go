package ligaplan

import (
	"github.com/kiefholz/ligaplan/halls"
	"github.com/kiefholz/ligaplan/layout"
	"github.com/kiefholz/ligaplan/schedule"
)

// ExtractOptions holds configuration for schedule extraction.
type ExtractOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Row reconstruction
	tolerance int

	// Table windows
	scheduleMarker string
	scheduleStop   string // closes the schedule window, empty for none
	hallMarker     string

	// Field extraction
	hostMarker string
	seasons    []string

	// Assembly
	keepUnresolved bool
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:          nil, // nil means all pages
		tolerance:      layout.DefaultTolerance,
		scheduleMarker: schedule.Sentinel,
		hallMarker:     halls.Sentinel,
		hostMarker:     schedule.DefaultHostMarker,
		seasons:        append([]string(nil), schedule.DefaultSeasons...),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = append([]int(nil), o.pages...)
	}
	if o.seasons != nil {
		newOpts.seasons = append([]string(nil), o.seasons...)
	}
	return newOpts
}

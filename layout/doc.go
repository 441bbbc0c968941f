// Package layout rebuilds table rows from positioned text fragments.
//
// Documents such as league schedules store their text as a flat stream of
// fragments, each with a page and a vertical coordinate, and no row or column
// structure. Visual alignment is the only signal that fragments belong to the
// same table row.
//
// # Row Clustering
//
// A [Clusterer] buckets fragments by their quantized vertical coordinate
// (floor(Y)). A fragment joins the first existing row of its page whose
// coordinate differs by less than the tolerance (default 2), otherwise it
// starts a new row at its own coordinate:
//
//	c := layout.NewClusterer(totalPages)
//	for n, frags := range pages {
//	    c.BeginPage(n + 1)
//	    for _, f := range frags {
//	        c.Add(f)
//	    }
//	}
//	rows := c.Rows() // page order, top to bottom
//
// [Cluster] does the same over already materialized pages.
//
// Matching is a linear scan over the page's keys rather than a hash lookup,
// so a key absorbs every later fragment within tolerance of it. Two real rows
// closer than the tolerance therefore merge, and a chain of fragments each
// within tolerance of the first key collapses onto that key. Both are known
// approximations.
//
// # Sentinel Gates
//
// A [Gate] drops fragments until a marker string appears, which skips the
// header and legend text preceding a table. [IncludeTrigger] passes the
// fragment carrying the marker, [ExcludeTrigger] drops it. An open gate stays
// open unless a close marker is configured with [WithClose].
package layout

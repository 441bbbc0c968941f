// Package model defines the data types shared by the extraction packages.
//
// # Fragments and Rows
//
// A [Fragment] is one positioned text run as it comes out of a document page.
// Fragments carry no row or column grouping; the layout package groups them
// into [Row] values keyed by [RowKey]:
//
//	key := model.RowKey{Page: 1, Y: 740, Rank: 2}
//	row := model.Row{Key: key, Text: "Sa,01.10,"}
//
// Rows order by page, then from the top of the page downwards (see
// [RowKey.Before]).
//
// # Records
//
// [MatchRecord] is one schedule line, [HallDirectory] maps hall codes to
// addresses, and [Player] is one entry of a club's ranking list. Fields that
// could not be extracted are empty strings:
//
//	rec := model.MatchRecord{Date: "01.10,01.10.2022", Time: "11:00"}
//	rec.Missing() // [venue home guest]
package model

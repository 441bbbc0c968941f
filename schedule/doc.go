// Package schedule decomposes reconstructed schedule rows into match records.
//
// A row is the comma-joined text of every fragment on one visual line of the
// schedule table, for example:
//
//	Sa,01.09,04.09.2022,18,19:00,Musterhalle,TeamA,TeamB,
//
// Fields are taken off the front of the row by an ordered list of [Rule]
// values. Each rule locates its field, extracts the value and strips the
// consumed text, handing the remainder to the next rule:
//
//  1. date: a field holding a season year, with the two fields before it
//  2. time: the HH:MM token after the date block, else the first one in the row
//  3. venue: the first word (the hall code)
//  4. home: the first name ending in a comma (or the end of the row)
//  5. guest: the next such name
//
// A rule that does not match leaves its field empty; records are emitted
// anyway. Only rows containing the host marker produce records. Every row,
// including the others, may update the current date, which is carried
// forward onto later rows that have none of their own. That state lives in an
// explicit [Accumulator] threaded through [Extractor.Step].
package schedule

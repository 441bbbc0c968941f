// Package roster turns a club's ranking table into players.
//
// The first cell of a ranking row holds the combined "single/double" ranking,
// for example "12/9". The team number is in the second cell and the player's
// name is the first element (the profile link) of the fourth cell.
package roster

import (
	"regexp"
	"strings"

	"github.com/kiefholz/ligaplan/htmldoc"
	"github.com/kiefholz/ligaplan/model"
)

// Pools are the ranking lists a club publishes.
const (
	Men   = "men"
	Women = "women"
)

var (
	doubleSuffix = regexp.MustCompile(`/\d+`)
	singlePrefix = regexp.MustCompile(`\d+/`)
)

// SplitRanking splits a combined ranking into its single and double
// positions. A value without a slash yields the same value for both.
func SplitRanking(s string) (single, double string) {
	s = strings.TrimSpace(s)
	return removeFirst(doubleSuffix, s), removeFirst(singlePrefix, s)
}

// FromRows converts table rows into players. Rows without td cells, such as
// section headings, are skipped.
func FromRows(rows []htmldoc.Row) []model.Player {
	var players []model.Player
	for _, row := range rows {
		if !row.HasData() {
			continue
		}
		single, double := SplitRanking(row.Cell(0).Text)
		players = append(players, model.Player{
			Single: single,
			Double: double,
			Team:   row.Cell(1).Text,
			Name:   row.Cell(3).ChildText,
		})
	}
	return players
}

// Parse reads a ranking page and returns its players.
func Parse(r *htmldoc.Reader) []model.Player {
	return FromRows(r.BodyRows())
}

func removeFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

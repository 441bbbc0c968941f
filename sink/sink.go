// Package sink writes match records and players as comma-separated lines.
//
// The format is the one the club's spreadsheets import, not RFC 4180: fields
// are joined with commas and never quoted. The only escaping rule is that
// commas inside the venue (a multi-line hall address) become spaces. A team
// name containing a comma therefore shifts the columns of its line.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiefholz/ligaplan/model"
)

// DateLayout is the date format used in output file names.
const DateLayout = "2006-01-02"

// MatchLine renders one record as date,time,venue,home,guest.
func MatchLine(r model.MatchRecord) string {
	return strings.Join([]string{
		r.Date,
		r.Time,
		strings.ReplaceAll(r.Venue, ",", " "),
		r.Home,
		r.Guest,
	}, ",")
}

// PlayerLine renders one player as single,double,name.
func PlayerLine(p model.Player) string {
	return p.Single + "," + p.Double + "," + p.Name
}

// WriteMatches writes one line per record, in order.
func WriteMatches(w io.Writer, records []model.MatchRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(MatchLine(r) + "\n"); err != nil {
			return fmt.Errorf("writing match: %w", err)
		}
	}
	return bw.Flush()
}

// WritePlayers writes one line per player, in order.
func WritePlayers(w io.Writer, players []model.Player) error {
	bw := bufio.NewWriter(w)
	for _, p := range players {
		if _, err := bw.WriteString(PlayerLine(p) + "\n"); err != nil {
			return fmt.Errorf("writing player: %w", err)
		}
	}
	return bw.Flush()
}

// DatedName builds a file name such as "Team1_2022-09-01.csv" or, with prefix
// "raw", "raw_Team1_2022-09-01.pdf". ext includes the dot.
func DatedName(prefix, name, ext string, now time.Time) string {
	parts := make([]string, 0, 3)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, sanitize(name), now.Format(DateLayout))
	return strings.Join(parts, "_") + ext
}

// sanitize keeps names usable as file names.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
}

// WriteFile creates path (and its directory) and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

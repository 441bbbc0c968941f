package model

import "strings"

// MatchRecord is one schedule line. An empty field means its pattern did not
// match. Venue holds a hall code until the record is resolved against a
// HallDirectory, then the hall's address.
type MatchRecord struct {
	Date  string
	Time  string
	Venue string
	Home  string
	Guest string
}

// Missing returns the names of the fields that are empty.
func (m MatchRecord) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"date", m.Date},
		{"time", m.Time},
		{"venue", m.Venue},
		{"home", m.Home},
		{"guest", m.Guest},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Complete reports whether every field is populated.
func (m MatchRecord) Complete() bool {
	return len(m.Missing()) == 0
}

// HallDirectory maps a hall code to its full address.
type HallDirectory map[string]string

// Lookup returns the address for code.
func (d HallDirectory) Lookup(code string) (string, bool) {
	if d == nil || code == "" {
		return "", false
	}
	addr, ok := d[code]
	return addr, ok
}

// Codes returns the directory's codes in no particular order.
func (d HallDirectory) Codes() []string {
	codes := make([]string, 0, len(d))
	for code := range d {
		codes = append(codes, code)
	}
	return codes
}

// Player is one row of a club's roster table.
type Player struct {
	Single string // singles ranking position
	Double string // doubles ranking position
	Team   string
	Name   string
}

// String renders the player as "Name (single/double)".
func (p Player) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteString(" (")
	sb.WriteString(p.Single)
	sb.WriteString("/")
	sb.WriteString(p.Double)
	sb.WriteString(")")
	return sb.String()
}

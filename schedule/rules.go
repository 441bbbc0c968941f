package schedule

import (
	"regexp"
	"strings"
)

// letters is the word class of the field patterns, ASCII word characters
// plus the German umlauts and ß.
const letters = `äöüÄÖÜß\w`

// Rule locates, extracts and strips one field.
type Rule struct {
	// Name identifies the field the rule produces
	Name string

	// Pattern locates the field in a row
	Pattern *regexp.Regexp

	// Extract builds the field value from the submatches of Pattern.
	// nil means the whole match.
	Extract func(m []string) string

	// Strip removes the consumed text from the row. Only the first match is
	// removed. nil means the match of Pattern.
	Strip *regexp.Regexp
}

// Apply runs the rule on row. ok is false when Pattern does not match, in
// which case field is empty and rest is row unchanged.
func (r Rule) Apply(row string) (field, rest string, ok bool) {
	loc := r.Pattern.FindStringSubmatchIndex(row)
	if loc == nil {
		return "", row, false
	}

	m := submatches(row, loc)
	if r.Extract != nil {
		field = r.Extract(m)
	} else {
		field = m[0]
	}

	if r.Strip == nil {
		return field, row[:loc[0]] + row[loc[1]:], true
	}
	return field, stripFirst(r.Strip, row), true
}

// Cascade is an ordered list of alternative rules for one field. The first
// rule that matches wins.
type Cascade []Rule

// Apply runs the rules in order and stops at the first match.
func (c Cascade) Apply(row string) (field, rest string, ok bool) {
	for _, r := range c {
		if field, rest, ok = r.Apply(row); ok {
			return field, rest, true
		}
	}
	return "", row, false
}

// stripFirst removes the leftmost match of re from s.
func stripFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// DateRule matches `prefix,anything,year-field` where year-field contains one
// of seasons. The value is `anything,year-field`; the whole block is
// stripped.
func DateRule(seasons []string) Rule {
	quoted := make([]string, len(seasons))
	for i, s := range seasons {
		quoted[i] = regexp.QuoteMeta(s)
	}
	years := strings.Join(quoted, "|")

	return Rule{
		Name:    "date",
		Pattern: regexp.MustCompile(`(?:^|,)([^,]*),([^,]*),([^,]*?(?:` + years + `)[^,]*)`),
		Extract: func(m []string) string {
			return strings.Trim(m[2]+","+m[3], ", ")
		},
	}
}

// DatedTimeRule matches the time that follows a stripped date block, one
// field later. The time and everything before it are stripped.
func DatedTimeRule() Rule {
	return Rule{
		Name:    "time",
		Pattern: regexp.MustCompile(`^,[^,]*,(\d+:\d+)`),
		Extract: func(m []string) string { return m[1] },
	}
}

// TimeRule matches the first HH:MM token anywhere in the row and strips only
// the token.
func TimeRule() Rule {
	return Rule{
		Name:    "time",
		Pattern: regexp.MustCompile(`\d+:\d+`),
	}
}

// VenueRule matches the first word, the hall code.
func VenueRule() Rule {
	return Rule{
		Name:    "venue",
		Pattern: regexp.MustCompile(`[` + letters + `]+`),
		Strip:   regexp.MustCompile(`[` + letters + `]+[, ]+`),
	}
}

// TeamRule matches the first team name terminated by a comma or the end of
// the row. Names may contain spaces, slashes and periods. name is "home" or
// "guest".
func TeamRule(name string) Rule {
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile(`[` + letters + `/ .]+(?:,|$)`),
		Extract: func(m []string) string {
			return strings.TrimSpace(strings.TrimSuffix(m[0], ","))
		},
		Strip: regexp.MustCompile(`[` + letters + `/ .]+(?:[, ]+|$)`),
	}
}

package gedcom

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const isoLayout = "2006-01-02"

// DateModifier qualifies an imprecise GEDCOM date.
type DateModifier int

const (
	ModifierNone DateModifier = iota
	ModifierAbout
	ModifierBefore
	ModifierAfter
	ModifierEstimated
	ModifierCalculated
	ModifierBetween
	ModifierFrom
	ModifierTo
)

var modifierLabels = map[DateModifier]string{
	ModifierAbout:      "about",
	ModifierBefore:     "before",
	ModifierAfter:      "after",
	ModifierEstimated:  "estimated",
	ModifierCalculated: "calculated",
	ModifierBetween:    "between",
	ModifierFrom:       "from",
	ModifierTo:         "to",
}

func (m DateModifier) String() string {
	return modifierLabels[m]
}

// Longest keywords first: BEFORE must win over BEF.
var modifierKeywords = []struct {
	keyword  string
	modifier DateModifier
}{
	{"BEFORE", ModifierBefore},
	{"ABOUT", ModifierAbout},
	{"AFTER", ModifierAfter},
	{"FROM", ModifierFrom},
	{"ABT", ModifierAbout},
	{"BEF", ModifierBefore},
	{"AFT", ModifierAfter},
	{"EST", ModifierEstimated},
	{"CAL", ModifierCalculated},
	{"BET", ModifierBetween},
	{"TO", ModifierTo},
}

var monthNames = map[string]time.Month{
	"JAN": time.January, "JANUARY": time.January,
	"FEB": time.February, "FEBRUARY": time.February,
	"MAR": time.March, "MARCH": time.March,
	"APR": time.April, "APRIL": time.April,
	"MAY": time.May,
	"JUN": time.June, "JUNE": time.June,
	"JUL": time.July, "JULY": time.July,
	"AUG": time.August, "AUGUST": time.August,
	"SEP": time.September, "SEPTEMBER": time.September,
	"OCT": time.October, "OCTOBER": time.October,
	"NOV": time.November, "NOVEMBER": time.November,
	"DEC": time.December, "DECEMBER": time.December,
}

// Date is a GEDCOM date value. Original is always kept; Resolved is nil
// when the body could not be read as a calendar date.
type Date struct {
	Original string
	Modifier DateModifier
	Resolved *time.Time
}

// ParseDate never fails: unreadable input yields an unresolved Date.
func ParseDate(raw string) Date {
	original := strings.TrimSpace(raw)
	modifier, body := extractModifier(original)

	switch modifier {
	case ModifierBetween:
		body = lowerBound(body, "AND")
	case ModifierFrom:
		body = lowerBound(body, "TO")
	}

	d := Date{Original: original, Modifier: modifier}
	if t, ok := resolveBody(body); ok {
		d.Resolved = &t
	}
	return d
}

// IsResolved reports whether a calendar date was recovered.
func (d Date) IsResolved() bool {
	return d.Resolved != nil
}

// ISO returns YYYY-MM-DD, or "" when unresolved.
func (d Date) ISO() string {
	if d.Resolved == nil {
		return ""
	}
	return d.Resolved.Format(isoLayout)
}

// Year returns the four-digit year, or "" when unresolved.
func (d Date) Year() string {
	if d.Resolved == nil {
		return ""
	}
	return strconv.Itoa(d.Resolved.Year())
}

// String renders the date for display.
func (d Date) String() string {
	if d.Resolved == nil {
		return d.Original
	}
	if d.Modifier == ModifierNone {
		return d.ISO()
	}
	return d.Modifier.String() + " " + d.ISO()
}

func extractModifier(s string) (DateModifier, string) {
	upper := strings.ToUpper(s)
	for _, m := range modifierKeywords {
		if !strings.HasPrefix(upper, m.keyword) {
			continue
		}
		rest := s[len(m.keyword):]
		rest = strings.TrimPrefix(rest, ".")
		if rest == "" {
			return m.modifier, ""
		}
		if r := rest[0]; r == ' ' || r == '\t' {
			return m.modifier, strings.TrimSpace(rest)
		}
	}
	return ModifierNone, s
}

// lowerBound cuts "X AND Y" or "X TO Y" down to X.
func lowerBound(body, separator string) string {
	fields := strings.Fields(body)
	for i, f := range fields {
		if strings.EqualFold(f, separator) {
			return strings.Join(fields[:i], " ")
		}
	}
	return body
}

func resolveBody(body string) (time.Time, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return time.Time{}, false
	}
	for _, resolve := range []func(string) (time.Time, bool){
		parseISO,
		parseDayMonthSlash,
		parseGedcomForm,
		parseBareYear,
	} {
		if t, ok := resolve(body); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseISO(s string) (time.Time, bool) {
	t, err := time.Parse(isoLayout, s)
	return t, err == nil
}

func parseDayMonthSlash(s string) (time.Time, bool) {
	t, err := time.Parse("2/1 2006", s)
	return t, err == nil
}

func parseGedcomForm(s string) (time.Time, bool) {
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		year, ok := parseYear(parts[0])
		if !ok {
			return time.Time{}, false
		}
		return makeDate(year, time.January, 1)
	case 2:
		monthText, yearText := parts[0], parts[1]
		if _, err := strconv.Atoi(parts[0]); err == nil {
			monthText, yearText = parts[1], parts[0]
		}
		month, ok := monthNames[strings.ToUpper(monthText)]
		if !ok {
			return time.Time{}, false
		}
		year, ok := parseYear(yearText)
		if !ok {
			return time.Time{}, false
		}
		return makeDate(year, month, 1)
	case 3:
		day, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, false
		}
		month, ok := monthNames[strings.ToUpper(parts[1])]
		if !ok {
			return time.Time{}, false
		}
		year, ok := parseYear(parts[2])
		if !ok {
			return time.Time{}, false
		}
		return makeDate(year, month, day)
	default:
		return time.Time{}, false
	}
}

func parseBareYear(s string) (time.Time, bool) {
	if len(s) != 4 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1000 || year > 2100 {
		return time.Time{}, false
	}
	return makeDate(year, time.January, 1)
}

func parseYear(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 {
		return 0, false
	}
	return year, true
}

// makeDate rejects dates that time.Date would silently normalize.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

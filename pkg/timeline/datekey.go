package timeline

import (
	"strings"
	"time"
)

// rangeSeparator is the en-dash used in date ranges like
// "2019-07-20–2019-08-20". A range sorts by its start.
const rangeSeparator = "–"

// dateLayouts are tried in priority order; the first successful parse wins.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// DateKey is a totally ordered sort key derived from a free-text date.
// Unparsable dates sort strictly after every parsable date and
// deterministically among themselves by their original string. The system
// never rejects a malformed date; it defers correction to a human.
type DateKey struct {
	Unparsed bool
	Year     int
	Month    int
	Day      int
	Raw      string
}

// ParseDateKey derives a sort key from a free-text date. Accepted forms are
// full dates, year-month, and year-only; month and day default to 1 when the
// pattern omits them. Ranges collapse to their start.
func ParseDateKey(s string) DateKey {
	d := strings.TrimSpace(s)
	if i := strings.Index(d, rangeSeparator); i >= 0 {
		d = strings.TrimSpace(d[:i])
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, d)
		if err != nil {
			continue
		}
		return DateKey{
			Year:  t.Year(),
			Month: int(t.Month()),
			Day:   t.Day(),
			Raw:   d,
		}
	}

	raw := d
	if raw == "" {
		raw = "~"
	}
	return DateKey{Unparsed: true, Year: 9999, Month: 12, Day: 31, Raw: raw}
}

// Compare returns -1, 0, or 1 ordering k before, equal to, or after other.
func (k DateKey) Compare(other DateKey) int {
	if c := compareBool(k.Unparsed, other.Unparsed); c != 0 {
		return c
	}
	if c := compareInt(k.Year, other.Year); c != 0 {
		return c
	}
	if c := compareInt(k.Month, other.Month); c != 0 {
		return c
	}
	if c := compareInt(k.Day, other.Day); c != 0 {
		return c
	}
	return strings.Compare(k.Raw, other.Raw)
}

// Before reports whether k sorts strictly before other.
func (k DateKey) Before(other DateKey) bool {
	return k.Compare(other) < 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

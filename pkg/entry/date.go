package entry

import (
	"fmt"
	"time"
)

const (
	// LayoutISO is the wire format of entry dates.
	LayoutISO = "2006-01-02"

	layoutShort     = "Jan 2"
	layoutShortYear = "Jan 2, 2006"
	layoutHeader    = "Monday, January 2, 2006"
)

// Today returns now's calendar day in ISO form.
func Today(now time.Time) string {
	return now.Format(LayoutISO)
}

// ParseDate parses an ISO date in now's location so calendar comparisons are
// made against the client's own day.
func ParseDate(date string, now time.Time) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutISO, date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("entry: invalid date %q: %w", date, err)
	}
	return t, nil
}

// ValidDate reports whether date is a well formed ISO calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(LayoutISO, date)
	return err == nil
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Label renders date relative to now: "Today", "Yesterday", or a short
// month/day that carries the year only when it differs from now's year.
// Dates that do not parse are returned unchanged.
func Label(date string, now time.Time) string {
	t, err := ParseDate(date, now)
	if err != nil {
		return date
	}
	switch {
	case SameDay(t, now):
		return "Today"
	case SameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	case t.Year() != now.Year():
		return t.Format(layoutShortYear)
	default:
		return t.Format(layoutShort)
	}
}

// Header is the title shown above the editor. Today's entry gets the long
// form of the date; any other date gets its label with an " Entry" suffix.
func Header(date string, now time.Time) string {
	if date == Today(now) {
		return now.Format(layoutHeader)
	}
	return Label(date, now) + " Entry"
}

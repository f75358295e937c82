package types

import (
	"time"
)

// DateLayout is the day-first format request and quotation dates are stored in (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current local date in DateLayout.
func Today() string {
	return FormatDate(time.Now())
}

// ParseDate parses a DateLayout string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsDate reports whether s is a valid DateLayout date.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// CompareDates orders two DateLayout strings chronologically.
// Unparseable values sort after every valid date and compare equal to each other.
func CompareDates(a, b string) int {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return ta.Compare(tb)
}

// Package dates holds the date helpers shared by the deadline engine and the
// report assembly. None of the functions here return errors; absent or
// malformed input is reported as a zero time.
package dates

import (
	"strings"
	"time"
)

// Placeholder is rendered wherever a date is absent or invalid
const Placeholder = "N/A"

const (
	dateLayout      = "January 2, 2006"
	dateTimeLayout  = "January 2, 2006, 3:04 PM"
	timestampLayout = "1/2/2006, 3:04:05 PM"
)

var parseLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
}

// Parse accepts the date shapes the case forms have stored over time.
// The second return value is false for empty or unrecognised input.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// CalendarDate returns the day t falls on as midnight in loc. Date-only
// fields are persisted as UTC midnight and keep their stored year, month and
// day; converting those with In(loc) would move them to the previous day
// west of Greenwich. Any other instant is taken on its local day in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	if loc == nil {
		loc = time.UTC
	}
	u := t.UTC()
	if u.Hour() != 0 || u.Minute() != 0 || u.Second() != 0 || u.Nanosecond() != 0 {
		return StartOfDay(t, loc)
	}
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, loc)
}

// AddDays adds calendar days, not business days
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DaysBetween returns the number of whole calendar days from `from` to `to`
// once both are normalised to midnight in loc. The result is negative when
// `to` is before `from`. Counting is done on the calendar date so a DST
// transition between the two never adds or loses a day.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	f := StartOfDay(from, loc)
	t := StartOfDay(to, loc)
	fu := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	tu := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(tu.Sub(fu).Hours() / 24)
}

// FormatDate renders t as "January 2, 2006" or the placeholder
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(dateLayout)
}

// FormatDateIn is FormatDate after converting t into loc
func FormatDateIn(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Placeholder
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}

// FormatDateTime renders t with a time of day, used for notes
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Placeholder
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateTimeLayout)
}

// FormatTimestamp renders the short numeric timestamp printed in document
// footers.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Placeholder
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(timestampLayout)
}

// LoadLocation resolves an IANA zone name, falling back to UTC
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Package period holds the calendar arithmetic shared by the resolver, the
// binder and the projections. Dates are civil dates represented as UTC
// midnight; times of day are "HH:MM" strings.
package period

import (
	"fmt"
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
)

// Layouts used on the wire and in storage.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// Domain errors
var (
	ErrEmptyDate     = apperr.Validation("date cannot be empty")
	ErrInvalidDate   = apperr.Validation("date must be YYYY-MM-DD")
	ErrInvalidMonth  = apperr.Validation("month must be YYYY-MM")
	ErrInvalidClock  = apperr.Validation("time must be HH:MM")
	ErrInvertedRange = apperr.Validation("start date must be before or equal to end date")
)

// Day normalizes t to its civil date at UTC midnight.
// The calendar fields are taken from t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same civil date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// NormalizeClock accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM".
// An empty input returns "" with no error.
func NormalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if len(s) == len("15:04:05") {
		s = s[:5]
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Format(ClockLayout), nil
}

// Period is an inclusive range of civil dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// New builds a period from two dates, normalizing both.
// PRE: start and end are non-zero
// POST: Returns ErrInvertedRange if end is before start
func New(start, end time.Time) (Period, error) {
	p := Period{Start: Day(start), End: Day(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvertedRange
	}
	return p, nil
}

// Month returns the period covering the given calendar month.
func Month(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// ParseMonth parses YYYY-MM into the period covering that month.
func ParseMonth(s string) (Period, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month(t.Year(), t.Month()), nil
}

// Contains reports whether d falls within the period (inclusive).
func (p Period) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns every date in the period in ascending order.
// A zero or inverted period yields nil.
func (p Period) Days() []time.Time {
	if p.Start.IsZero() || p.End.Before(p.Start) {
		return nil
	}
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String renders the period as "start..end".
func (p Period) String() string {
	return FormatDate(p.Start) + ".." + FormatDate(p.End)
}

// GridDays is the number of cells in a month calendar grid (6 weeks).
const GridDays = 42

// CalendarGrid returns the 42 dates of a Monday-first month grid containing
// the month of d. The grid starts on the Monday on or before the 1st.
func CalendarGrid(d time.Time) []time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	back := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -back)
	grid := make([]time.Time, GridDays)
	for i := range grid {
		grid[i] = start.AddDate(0, 0, i)
	}
	return grid
}

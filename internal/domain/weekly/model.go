package weekly

import (
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/period"
)

// Domain errors
var (
	ErrEmptyClubID    = apperr.Validation("club ID cannot be empty")
	ErrInvalidWeekday = apperr.Validation("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrEmptyStartTime = apperr.Validation("start time cannot be empty")
	ErrEndBeforeStart = apperr.Validation("end time must be after start time")
)

// Template is a recurring weekly training definition.
// Templates are only ever soft-deleted (Active=false) because entries keep
// referencing them.
type Template struct {
	ID        int64
	ClubID    string
	Weekday   time.Weekday
	TimeStart string // HH:MM
	TimeEnd   string // HH:MM, empty for open-ended trainings
	Active    bool
}

// Validate checks if the Template has valid data and normalizes its times.
// PRE: Template struct is populated
// POST: Returns nil if valid, error otherwise; TimeStart/TimeEnd are HH:MM
func (t *Template) Validate() error {
	if strings.TrimSpace(t.ClubID) == "" {
		return ErrEmptyClubID
	}
	if t.Weekday < time.Sunday || t.Weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	start, err := period.NormalizeClock(t.TimeStart)
	if err != nil {
		return err
	}
	if start == "" {
		return ErrEmptyStartTime
	}
	end, err := period.NormalizeClock(t.TimeEnd)
	if err != nil {
		return err
	}
	if end != "" && end <= start {
		return ErrEndBeforeStart
	}
	t.TimeStart, t.TimeEnd = start, end
	return nil
}

// OccursOn reports whether an active template produces an occurrence on d.
// INVARIANT: Template fields are not mutated
func (t Template) OccursOn(d time.Time) bool {
	return t.Active && d.Weekday() == t.Weekday
}

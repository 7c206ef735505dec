package assignment

import (
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/period"
)

// Domain errors
var (
	ErrEmptyTrainerID  = apperr.Validation("trainer ID cannot be empty")
	ErrEmptyTemplateID = apperr.Validation("template ID cannot be empty")
	ErrEmptyStartDate  = apperr.Validation("start date cannot be zero")
	ErrInvalidDates    = apperr.Validation("end date must be on or after the start date")
	ErrEmptyDate       = apperr.Validation("exception date cannot be zero")
)

// Assignment binds a trainer to a weekly template for a validity window.
// Each occurrence in the window counts as a sign-up without a stored entry.
type Assignment struct {
	ID          int64
	ClubID      string // club of the template
	TrainerID   string
	TrainerName string // joined from the trainer record for display
	TemplateID  int64
	StartDate   time.Time
	EndDate     *time.Time // nil means open-ended
	Active      bool
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}

// Validate checks if the Assignment has valid data.
// PRE: Assignment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Assignment) Validate() error {
	if strings.TrimSpace(a.TrainerID) == "" {
		return ErrEmptyTrainerID
	}
	if a.TemplateID == 0 {
		return ErrEmptyTemplateID
	}
	if a.StartDate.IsZero() {
		return ErrEmptyStartDate
	}
	a.StartDate = period.Day(a.StartDate)
	if a.EndDate != nil {
		end := period.Day(*a.EndDate)
		if end.Before(a.StartDate) {
			return ErrInvalidDates
		}
		a.EndDate = &end
	}
	return nil
}

// Covers reports whether d falls within the assignment's validity window.
// INVARIANT: Assignment fields are not mutated
func (a Assignment) Covers(d time.Time) bool {
	d = period.Day(d)
	if d.Before(period.Day(a.StartDate)) {
		return false
	}
	return a.EndDate == nil || !d.After(period.Day(*a.EndDate))
}

// Overlaps reports whether a and b bind the same template on at least one
// common date. Inactive assignments overlap nothing.
// INVARIANT: Assignment fields are not mutated
func (a Assignment) Overlaps(b Assignment) bool {
	if a.TemplateID != b.TemplateID || !a.Active || !b.Active {
		return false
	}
	if a.EndDate != nil && period.Day(*a.EndDate).Before(period.Day(b.StartDate)) {
		return false
	}
	if b.EndDate != nil && period.Day(*b.EndDate).Before(period.Day(a.StartDate)) {
		return false
	}
	return true
}

// Exception marks a date on which an assignment does not apply.
type Exception struct {
	AssignmentID int64
	Date         time.Time
	Reason       string
}

// Validate checks if the Exception has valid data.
func (e *Exception) Validate() error {
	if e.AssignmentID == 0 {
		return apperr.Validation("assignment ID cannot be empty")
	}
	if e.Date.IsZero() {
		return ErrEmptyDate
	}
	e.Date = period.Day(e.Date)
	return nil
}

// ExceptionSet indexes exceptions by (assignment, date) for lookups.
type ExceptionSet map[exceptionKey]Exception

type exceptionKey struct {
	assignmentID int64
	date         string
}

// NewExceptionSet indexes the given exceptions.
func NewExceptionSet(exceptions []Exception) ExceptionSet {
	set := make(ExceptionSet, len(exceptions))
	for _, e := range exceptions {
		set[exceptionKey{e.AssignmentID, period.FormatDate(e.Date)}] = e
	}
	return set
}

// Has reports whether the assignment is excepted on d.
func (s ExceptionSet) Has(assignmentID int64, d time.Time) bool {
	_, ok := s[exceptionKey{assignmentID, period.FormatDate(d)}]
	return ok
}

// Package entry models trainer sign-ups. An Entry is either a stored
// sign-up or a scheduled occurrence derived from a recurring assignment.
package entry

import (
	"fmt"
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
)

// Domain errors
var (
	ErrEmptyClubID    = apperr.Validation("club ID cannot be empty")
	ErrEmptyTrainerID = apperr.Validation("trainer ID cannot be empty")
	ErrEmptyDate      = apperr.Validation("entry date cannot be zero")
	ErrInvalidSlotKey = apperr.Validation("entry must reference exactly one template or override")
	ErrMissingRef     = apperr.Validation("entry has no provenance")
	ErrDuplicateEntry = apperr.Duplicate("trainer is already signed up for this slot")
)

// MaxRemarkLength limits free-text remarks.
const MaxRemarkLength = 500

// Ref is the provenance of an Entry: RealRef or ScheduledRef.
type Ref interface {
	isRef()
	String() string
}

// RealRef identifies a stored sign-up row.
type RealRef struct {
	ID int64
}

func (RealRef) isRef() {}

func (r RealRef) String() string { return fmt.Sprintf("entry:%d", r.ID) }

// ScheduledRef identifies an assignment occurrence. It is never persisted
// as an entry row.
type ScheduledRef struct {
	AssignmentID int64
	Date         time.Time
}

func (ScheduledRef) isRef() {}

func (r ScheduledRef) String() string {
	return fmt.Sprintf("scheduled:%d:%s", r.AssignmentID, period.FormatDate(r.Date))
}

// Entry is a trainer bound to a slot on a date.
type Entry struct {
	Ref         Ref
	ClubID      string
	Slot        slot.Key
	Date        time.Time
	TrainerID   string
	TrainerName string
	Remark      string
	CreatedAt   time.Time
}

// NewReal builds a stored sign-up for the given slot. The ID is zero until
// the entry is saved.
func NewReal(clubID string, key slot.Key, date time.Time, trainerID, trainerName, remark string) Entry {
	return Entry{
		Ref:         RealRef{},
		ClubID:      clubID,
		Slot:        key,
		Date:        period.Day(date),
		TrainerID:   trainerID,
		TrainerName: trainerName,
		Remark:      remark,
	}
}

// NewScheduled builds the virtual entry for an assignment occurrence.
func NewScheduled(clubID string, assignmentID, templateID int64, date time.Time, trainerID, trainerName string) Entry {
	d := period.Day(date)
	return Entry{
		Ref:         ScheduledRef{AssignmentID: assignmentID, Date: d},
		ClubID:      clubID,
		Slot:        slot.RegularKey(templateID),
		Date:        d,
		TrainerID:   trainerID,
		TrainerName: trainerName,
	}
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.Ref == nil {
		return ErrMissingRef
	}
	if strings.TrimSpace(e.ClubID) == "" {
		return ErrEmptyClubID
	}
	if strings.TrimSpace(e.TrainerID) == "" {
		return ErrEmptyTrainerID
	}
	if e.Date.IsZero() {
		return ErrEmptyDate
	}
	if e.Slot.ID <= 0 || (e.Slot.Kind != slot.KeyRegular && e.Slot.Kind != slot.KeyExtra) {
		return ErrInvalidSlotKey
	}
	e.Remark = strings.TrimSpace(e.Remark)
	if len(e.Remark) > MaxRemarkLength {
		return apperr.Validation(fmt.Sprintf("remark cannot exceed %d characters", MaxRemarkLength))
	}
	e.Date = period.Day(e.Date)
	return nil
}

// IsScheduled reports whether the entry is derived from an assignment.
func (e Entry) IsScheduled() bool {
	_, ok := e.Ref.(ScheduledRef)
	return ok
}

// TemplateID returns the template column value, nil for extra slots.
func (e Entry) TemplateID() *int64 {
	if e.Slot.Kind != slot.KeyRegular {
		return nil
	}
	id := e.Slot.ID
	return &id
}

// OverrideID returns the override column value, nil for regular slots.
func (e Entry) OverrideID() *int64 {
	if e.Slot.Kind != slot.KeyExtra {
		return nil
	}
	id := e.Slot.ID
	return &id
}

// KeyFromColumns rebuilds a slot key from nullable storage columns.
// Exactly one of templateID and overrideID must be set.
func KeyFromColumns(templateID, overrideID *int64) (slot.Key, error) {
	switch {
	case templateID != nil && overrideID == nil:
		return slot.RegularKey(*templateID), nil
	case overrideID != nil && templateID == nil:
		return slot.ExtraKey(*overrideID), nil
	default:
		return slot.Key{}, ErrInvalidSlotKey
	}
}

// Binds reports whether e occupies the same trainer, slot and date as other.
func (e Entry) Binds(other Entry) bool {
	return e.TrainerID == other.TrainerID && e.Slot == other.Slot && period.SameDay(e.Date, other.Date)
}

// CheckDuplicate fails with ErrDuplicateEntry when candidate would be a
// second binding of its trainer to the same slot and date.
// INVARIANT: real and scheduled bindings count alike
func CheckDuplicate(existing []Entry, candidate Entry) error {
	for _, e := range existing {
		if e.Binds(candidate) {
			return ErrDuplicateEntry
		}
	}
	return nil
}

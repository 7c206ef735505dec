// Package override models date-specific exceptions to the weekly schedule.
//
// An Override is one of three variants:
//
//	cancel: cancels one template's occurrence (TemplateID set) or, for
//	        legacy records, every occurrence on the date (TemplateID nil)
//	extra: a standalone training that needs a trainer roster
//	event: a standalone announcement without sign-up
//
// The variant is fixed at creation. Changing it means deleting the override
// and creating a new one.
package override

import (
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/period"
)

// Kind discriminates the override variants.
type Kind string

// Override kinds
const (
	KindCancel Kind = "cancel"
	KindExtra  Kind = "extra"
	KindEvent  Kind = "event"
)

// Storage actions. Events are stored as extra with requires_roster=false.
const (
	ActionCancel = "cancel"
	ActionExtra  = "extra"
)

// Domain errors
var (
	ErrEmptyClubID           = apperr.Validation("club ID cannot be empty")
	ErrEmptyDate             = apperr.Validation("override date cannot be zero")
	ErrInvalidKind           = apperr.Validation("kind must be cancel, extra or event")
	ErrEmptyStartTime        = apperr.Validation("start time is required for extra trainings and events")
	ErrEndBeforeStart        = apperr.Validation("end time must be after start time")
	ErrCancelHasTimes        = apperr.Validation("a cancellation cannot carry times")
	ErrStandaloneHasTemplate = apperr.Validation("an extra training or event cannot reference a template")
	ErrEmptyEventTitle       = apperr.Validation("an event needs a description")
	ErrKindImmutable         = apperr.Validation("override kind cannot be changed; delete and recreate instead")
	ErrNotCancel             = apperr.Validation("override is not a cancellation")
	ErrNotStandalone         = apperr.Validation("only extra trainings and events can be edited")
)

// Override is a per-date exception record.
type Override struct {
	ID         int64
	ClubID     string
	Date       time.Time
	Kind       Kind
	TemplateID *int64 // cancel only; nil means legacy wide cancel
	TimeStart  string // extra/event only, HH:MM
	TimeEnd    string // extra/event only, HH:MM or empty
	Reason     string
	CreatedBy  string
	CreatedAt  time.Time
}

// NewCancel builds a targeted cancellation of one template's occurrence.
func NewCancel(clubID string, date time.Time, templateID int64, reason string) Override {
	id := templateID
	return Override{ClubID: clubID, Date: period.Day(date), Kind: KindCancel, TemplateID: &id, Reason: strings.TrimSpace(reason)}
}

// NewLegacyCancel builds a wide cancellation covering every occurrence on date.
// New data should use NewCancel; this exists for imports of older records.
func NewLegacyCancel(clubID string, date time.Time, reason string) Override {
	return Override{ClubID: clubID, Date: period.Day(date), Kind: KindCancel, Reason: strings.TrimSpace(reason)}
}

// NewExtra builds a standalone training that needs trainers.
func NewExtra(clubID string, date time.Time, start, end, reason string) Override {
	return Override{ClubID: clubID, Date: period.Day(date), Kind: KindExtra, TimeStart: start, TimeEnd: end, Reason: strings.TrimSpace(reason)}
}

// NewEvent builds a standalone announcement that needs no trainers.
func NewEvent(clubID string, date time.Time, start, end, description string) Override {
	return Override{ClubID: clubID, Date: period.Day(date), Kind: KindEvent, TimeStart: start, TimeEnd: end, Reason: strings.TrimSpace(description)}
}

// Validate checks the variant-specific shape and normalizes times.
// PRE: Override struct is populated
// POST: Returns nil if valid, error otherwise
func (o *Override) Validate() error {
	if strings.TrimSpace(o.ClubID) == "" {
		return ErrEmptyClubID
	}
	if o.Date.IsZero() {
		return ErrEmptyDate
	}
	o.Date = period.Day(o.Date)

	switch o.Kind {
	case KindCancel:
		if o.TimeStart != "" || o.TimeEnd != "" {
			return ErrCancelHasTimes
		}
		return nil
	case KindExtra, KindEvent:
		if o.TemplateID != nil {
			return ErrStandaloneHasTemplate
		}
		if o.Kind == KindEvent && strings.TrimSpace(o.Reason) == "" {
			return ErrEmptyEventTitle
		}
		start, err := period.NormalizeClock(o.TimeStart)
		if err != nil {
			return err
		}
		if start == "" {
			return ErrEmptyStartTime
		}
		end, err := period.NormalizeClock(o.TimeEnd)
		if err != nil {
			return err
		}
		if end != "" && end <= start {
			return ErrEndBeforeStart
		}
		o.TimeStart, o.TimeEnd = start, end
		return nil
	default:
		return ErrInvalidKind
	}
}

// IsCancel reports whether this is a cancellation.
func (o Override) IsCancel() bool { return o.Kind == KindCancel }

// IsStandalone reports whether this override produces its own slot.
func (o Override) IsStandalone() bool { return o.Kind == KindExtra || o.Kind == KindEvent }

// IsLegacyWide reports whether this is a cancellation without a template.
func (o Override) IsLegacyWide() bool { return o.Kind == KindCancel && o.TemplateID == nil }

// RequiresRoster reports whether trainers can sign up for the slot.
func (o Override) RequiresRoster() bool { return o.Kind == KindExtra }

// Cancels reports whether o cancels the occurrence of templateID on date.
// Both targeted and legacy wide cancellations apply.
// INVARIANT: Override fields are not mutated
func (o Override) Cancels(templateID int64, date time.Time) bool {
	if o.Kind != KindCancel || !period.SameDay(o.Date, date) {
		return false
	}
	return o.TemplateID == nil || *o.TemplateID == templateID
}

// Action returns the storage action and requires_roster flag for the kind.
func (o Override) Action() (action string, requiresRoster bool) {
	switch o.Kind {
	case KindCancel:
		return ActionCancel, true
	case KindEvent:
		return ActionExtra, false
	default:
		return ActionExtra, true
	}
}

// KindFromAction maps a stored action and requires_roster flag back to a Kind.
func KindFromAction(action string, requiresRoster bool) (Kind, error) {
	switch action {
	case ActionCancel:
		return KindCancel, nil
	case ActionExtra:
		if !requiresRoster {
			return KindEvent, nil
		}
		return KindExtra, nil
	default:
		return "", ErrInvalidKind
	}
}

// ParseKind parses a wire kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCancel, KindExtra, KindEvent:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

// Edit carries the mutable fields of a standalone override.
type Edit struct {
	Kind      Kind // must equal the existing kind when set
	Date      time.Time
	TimeStart string
	TimeEnd   string
	Reason    string
}

// Apply returns a copy of o with the edit applied.
// PRE: o has been loaded from storage
// POST: Returns ErrNotStandalone for cancellations, ErrKindImmutable when the
// edit asks for a different kind, or the validated result
func (o Override) Apply(e Edit) (Override, error) {
	if !o.IsStandalone() {
		return Override{}, ErrNotStandalone
	}
	if e.Kind != "" && e.Kind != o.Kind {
		return Override{}, ErrKindImmutable
	}
	next := o
	if !e.Date.IsZero() {
		next.Date = e.Date
	}
	if e.TimeStart != "" {
		next.TimeStart = e.TimeStart
	}
	next.TimeEnd = e.TimeEnd
	next.Reason = strings.TrimSpace(e.Reason)
	if err := next.Validate(); err != nil {
		return Override{}, err
	}
	return next, nil
}

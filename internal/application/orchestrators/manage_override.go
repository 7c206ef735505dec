package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
)

// Override management errors
var (
	ErrOverrideNotFound    = apperr.NotFound("override not found")
	ErrTemplateInactive    = apperr.Validation("cannot cancel a deactivated training")
	ErrWrongWeekday        = apperr.Validation("the training does not take place on this weekday")
	ErrCancelNeedsTemplate = apperr.Validation("a cancellation needs the template it cancels")
	ErrExtraHasEntries     = apperr.Validation("an extra training with sign-ups cannot move to another date")
)

// OverrideDeps holds dependencies for override management.
type OverrideDeps struct {
	TemplateStore TemplateStore
	OverrideStore OverrideStore
	EntryStore    EntryLister
	Now           func() time.Time
}

// CancelSlotInput carries input for cancelling one template occurrence.
type CancelSlotInput struct {
	ClubID     string
	TemplateID int64
	Date       time.Time
	Reason     string
	CreatedBy  string
}

// ExecuteCancelSlot stores a targeted cancellation for one occurrence.
// PRE: Template is active, belongs to ClubID and occurs on Date's weekday
// POST: Override stored; the next resolve marks the slot cancelled
func ExecuteCancelSlot(ctx context.Context, input CancelSlotInput, deps OverrideDeps) (override.Override, error) {
	if input.Date.IsZero() {
		return override.Override{}, override.ErrEmptyDate
	}
	t, err := loadClubTemplate(ctx, input.ClubID, input.TemplateID, deps.TemplateStore)
	if err != nil {
		return override.Override{}, err
	}
	if !t.Active {
		return override.Override{}, ErrTemplateInactive
	}
	if !t.OccursOn(input.Date) {
		return override.Override{}, ErrWrongWeekday
	}

	o := override.NewCancel(input.ClubID, input.Date, t.ID, input.Reason)
	return createOverride(ctx, o, input.CreatedBy, deps)
}

// StandaloneInput carries input for an extra training or an event.
type StandaloneInput struct {
	ClubID    string
	Kind      override.Kind
	Date      time.Time
	TimeStart string
	TimeEnd   string
	Reason    string
	CreatedBy string
}

// ExecuteCreateStandalone stores an extra training or event.
// PRE: Kind is extra or event, TimeStart is set
// POST: Override stored; the next resolve emits its own slot
func ExecuteCreateStandalone(ctx context.Context, input StandaloneInput, deps OverrideDeps) (override.Override, error) {
	var o override.Override
	switch input.Kind {
	case override.KindExtra:
		o = override.NewExtra(input.ClubID, input.Date, input.TimeStart, input.TimeEnd, input.Reason)
	case override.KindEvent:
		o = override.NewEvent(input.ClubID, input.Date, input.TimeStart, input.TimeEnd, input.Reason)
	case override.KindCancel:
		return override.Override{}, ErrCancelNeedsTemplate
	default:
		return override.Override{}, override.ErrInvalidKind
	}
	return createOverride(ctx, o, input.CreatedBy, deps)
}

func createOverride(ctx context.Context, o override.Override, createdBy string, deps OverrideDeps) (override.Override, error) {
	o.CreatedBy = createdBy
	o.CreatedAt = deps.Now()
	if err := o.Validate(); err != nil {
		return override.Override{}, err
	}
	id, err := deps.OverrideStore.Create(ctx, o)
	if err != nil {
		return override.Override{}, err
	}
	o.ID = id
	slog.Info("override_event", "event", "override_created", "club_id", o.ClubID, "override_id", id, "kind", string(o.Kind), "date", period.FormatDate(o.Date))
	return o, nil
}

// UpdateOverrideInput carries an edit of an extra training or event.
type UpdateOverrideInput struct {
	ClubID     string
	OverrideID int64
	Edit       override.Edit
}

// ExecuteUpdateOverride edits date, times or reason of a standalone override.
// PRE: Override belongs to ClubID and is an extra or event
// POST: Override updated; a kind change is rejected with override.ErrKindImmutable
// INVARIANT: an extra with stored entries keeps its date
func ExecuteUpdateOverride(ctx context.Context, input UpdateOverrideInput, deps OverrideDeps) (override.Override, error) {
	o, err := loadClubOverride(ctx, input.ClubID, input.OverrideID, deps.OverrideStore)
	if err != nil {
		return override.Override{}, err
	}
	next, err := o.Apply(input.Edit)
	if err != nil {
		return override.Override{}, err
	}
	if next.RequiresRoster() && !period.SameDay(next.Date, o.Date) {
		bound, err := hasExtraEntries(ctx, o, deps.EntryStore)
		if err != nil {
			return override.Override{}, err
		}
		if bound {
			return override.Override{}, ErrExtraHasEntries
		}
	}
	if err := deps.OverrideStore.Update(ctx, next); err != nil {
		return override.Override{}, err
	}
	slog.Info("override_event", "event", "override_updated", "club_id", next.ClubID, "override_id", next.ID, "date", period.FormatDate(next.Date))
	return next, nil
}

// DeleteOverrideInput identifies the override to remove.
// OnlyCancel restricts the delete to cancellations, which lifts them.
type DeleteOverrideInput struct {
	ClubID     string
	OverrideID int64
	OnlyCancel bool
}

// ExecuteDeleteOverride removes an override of any kind.
// Entries bound to an extra slot are removed with it.
// PRE: Override belongs to ClubID
// POST: Override removed; a concurrent removal surfaces as NotFound
func ExecuteDeleteOverride(ctx context.Context, input DeleteOverrideInput, deps OverrideDeps) error {
	o, err := loadClubOverride(ctx, input.ClubID, input.OverrideID, deps.OverrideStore)
	if err != nil {
		return err
	}
	if input.OnlyCancel && !o.IsCancel() {
		return override.ErrNotCancel
	}
	if err := deps.OverrideStore.Delete(ctx, o.ID); err != nil {
		return err
	}
	event := "override_deleted"
	if o.IsCancel() {
		event = "cancellation_lifted"
	}
	slog.Info("override_event", "event", event, "club_id", o.ClubID, "override_id", o.ID, "kind", string(o.Kind), "date", period.FormatDate(o.Date))
	return nil
}

// hasExtraEntries reports whether stored entries are bound to the extra o on
// its current date.
func hasExtraEntries(ctx context.Context, o override.Override, entries EntryLister) (bool, error) {
	list, err := entries.ListByClubRange(ctx, o.ClubID, o.Date, o.Date)
	if err != nil {
		return false, err
	}
	key := slot.ExtraKey(o.ID)
	for _, e := range list {
		if e.Slot == key {
			return true, nil
		}
	}
	return false, nil
}

func loadClubOverride(ctx context.Context, clubID string, id int64, store OverrideStore) (override.Override, error) {
	o, err := store.GetByID(ctx, id)
	if err != nil {
		return override.Override{}, err
	}
	if o.ClubID != clubID {
		return override.Override{}, ErrOverrideNotFound
	}
	return o, nil
}

package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
)

// Unregister errors
var (
	ErrEntryNotFound      = apperr.NotFound("entry not found")
	ErrOccurrenceNotFound = apperr.NotFound("no scheduled training for this assignment on this date")
	ErrNotOwnEntry        = apperr.Forbidden("trainers can only unregister themselves")
	ErrUnknownRefVariant  = apperr.Validation("unknown entry reference")
)

// UnregisterInput carries input for the orchestrator.
// Ref selects the variant: a stored entry is deleted, a scheduled occurrence
// is skipped by writing an assignment exception.
type UnregisterInput struct {
	ClubID         string
	Ref            entry.Ref
	ActorTrainerID string // empty for admins
	ActorIsAdmin   bool
	Reason         string
}

// UnregisterDeps holds dependencies for Unregister.
type UnregisterDeps struct {
	TemplateStore   TemplateLister
	OverrideStore   OverrideLister
	EntryStore      EntryStore
	AssignmentStore AssignmentStore
}

// ExecuteUnregister removes a trainer's binding from a slot.
// PRE: Ref is an entry.RealRef or entry.ScheduledRef of ClubID
// POST: a real entry row is deleted, or an exception is stored for the
// scheduled occurrence
// INVARIANT: a scheduled entry never causes an entry row deletion
func ExecuteUnregister(ctx context.Context, input UnregisterInput, deps UnregisterDeps) error {
	switch ref := input.Ref.(type) {
	case entry.RealRef:
		return unregisterReal(ctx, input, ref, deps)
	case entry.ScheduledRef:
		return skipOccurrence(ctx, input, ref, deps)
	default:
		return ErrUnknownRefVariant
	}
}

func unregisterReal(ctx context.Context, input UnregisterInput, ref entry.RealRef, deps UnregisterDeps) error {
	e, err := deps.EntryStore.GetByID(ctx, ref.ID)
	if err != nil {
		return err
	}
	if e.ClubID != input.ClubID {
		return ErrEntryNotFound
	}
	if !input.ActorIsAdmin && e.TrainerID != input.ActorTrainerID {
		return ErrNotOwnEntry
	}
	if err := deps.EntryStore.Delete(ctx, ref.ID); err != nil {
		return err
	}
	slog.Info("roster_event", "event", "unregistered", "club_id", input.ClubID, "trainer_id", e.TrainerID, "entry_id", ref.ID, "date", period.FormatDate(e.Date))
	return nil
}

func skipOccurrence(ctx context.Context, input UnregisterInput, ref entry.ScheduledRef, deps UnregisterDeps) error {
	a, err := deps.AssignmentStore.GetByID(ctx, ref.AssignmentID)
	if err != nil {
		return err
	}
	if a.ClubID != input.ClubID {
		return ErrOccurrenceNotFound
	}
	if !input.ActorIsAdmin && a.TrainerID != input.ActorTrainerID {
		return ErrNotOwnEntry
	}

	// The occurrence must be bound right now; this rejects dates outside
	// the window, wrong weekdays and already skipped days alike.
	_, r, err := loadDay(ctx, input.ClubID, ref.Date, dayReaders{
		templates:   deps.TemplateStore,
		overrides:   deps.OverrideStore,
		entries:     deps.EntryStore,
		assignments: deps.AssignmentStore,
	})
	if err != nil {
		return err
	}
	if !holdsScheduled(r[slot.RegularKey(a.TemplateID)], a.ID) {
		return ErrOccurrenceNotFound
	}

	exc := assignment.Exception{AssignmentID: a.ID, Date: ref.Date, Reason: strings.TrimSpace(input.Reason)}
	if err := exc.Validate(); err != nil {
		return err
	}
	if err := deps.AssignmentStore.SaveException(ctx, exc); err != nil {
		return err
	}
	slog.Info("roster_event", "event", "occurrence_skipped", "club_id", input.ClubID, "trainer_id", a.TrainerID, "assignment_id", a.ID, "date", period.FormatDate(exc.Date))
	return nil
}

func holdsScheduled(list []entry.Entry, assignmentID int64) bool {
	for _, e := range list {
		if ref, ok := e.Ref.(entry.ScheduledRef); ok && ref.AssignmentID == assignmentID {
			return true
		}
	}
	return false
}

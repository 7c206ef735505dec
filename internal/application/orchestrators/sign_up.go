package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/roster"
	"dojoroster/internal/domain/slot"
)

// Sign-up errors
var (
	ErrSlotNotFound   = apperr.NotFound("no training at this time on this date")
	ErrSlotClosed     = apperr.Validation("this training does not take sign-ups")
	ErrForeignTrainer = apperr.Forbidden("trainer belongs to another club")
)

// SignUpInput carries input for the orchestrator.
type SignUpInput struct {
	ClubID    string
	TrainerID string
	Date      time.Time
	Slot      slot.Key
	Remark    string
}

// SignUpDeps holds dependencies for SignUp.
type SignUpDeps struct {
	TemplateStore   TemplateLister
	OverrideStore   OverrideLister
	EntryStore      EntryStore
	AssignmentStore AssignmentStore
	TrainerStore    TrainerStore
	Now             func() time.Time
}

// ExecuteSignUp binds a trainer to a slot with a stored entry.
// PRE: Trainer exists in the club, the slot resolves on Date
// POST: Entry stored and returned with its ID
// INVARIANT: a trainer holds at most one binding per slot and date; a second
// attempt fails with entry.ErrDuplicateEntry whether caught here or by storage
func ExecuteSignUp(ctx context.Context, input SignUpInput, deps SignUpDeps) (entry.Entry, error) {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return entry.Entry{}, err
	}
	if t.ClubID != input.ClubID {
		return entry.Entry{}, ErrForeignTrainer
	}

	candidate := entry.NewReal(input.ClubID, input.Slot, input.Date, t.ID, t.Name, input.Remark)
	if err := candidate.Validate(); err != nil {
		return entry.Entry{}, err
	}

	slots, r, err := loadDay(ctx, input.ClubID, candidate.Date, dayReaders{
		templates:   deps.TemplateStore,
		overrides:   deps.OverrideStore,
		entries:     deps.EntryStore,
		assignments: deps.AssignmentStore,
	})
	if err != nil {
		return entry.Entry{}, err
	}
	s, ok := findSlot(slots, candidate.Slot)
	if !ok {
		return entry.Entry{}, ErrSlotNotFound
	}
	if !s.TakesSignUps() {
		return entry.Entry{}, ErrSlotClosed
	}
	if err := roster.CheckSignUp(r, candidate); err != nil {
		return entry.Entry{}, err
	}

	candidate.CreatedAt = deps.Now()
	id, err := deps.EntryStore.Create(ctx, candidate)
	if err != nil {
		return entry.Entry{}, err
	}
	candidate.Ref = entry.RealRef{ID: id}

	slog.Info("roster_event", "event", "signed_up", "club_id", input.ClubID, "trainer_id", t.ID, "slot", candidate.Slot.String(), "date", s.DateString(), "entry_id", id)
	return candidate, nil
}

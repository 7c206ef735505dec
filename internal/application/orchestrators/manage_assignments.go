package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
)

// Assignment management errors
var (
	ErrTrainerNotFound   = apperr.NotFound("trainer not found")
	ErrAssignmentOverlap = apperr.Validation("trainer is already assigned to this training in the given period")
)

// AssignmentDeps holds dependencies for assignment management.
type AssignmentDeps struct {
	TrainerStore    TrainerStore
	TemplateStore   TemplateStore
	EntryStore      EntryStore
	AssignmentStore AssignmentStore
	Now             func() time.Time
}

// AddAssignmentInput carries input for the orchestrator.
type AddAssignmentInput struct {
	ClubID     string
	TrainerID  string
	Assignment AssignmentInput
	CreatedBy  string
}

// ExecuteAddAssignment binds an existing trainer to another weekly template.
// PRE: Trainer and template belong to ClubID; template is active
// POST: Assignment stored; its occurrences appear as scheduled entries
// INVARIANT: a trainer holds at most one active assignment per template and date
func ExecuteAddAssignment(ctx context.Context, input AddAssignmentInput, deps AssignmentDeps) (assignment.Assignment, error) {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if t.ClubID != input.ClubID {
		return assignment.Assignment{}, ErrTrainerNotFound
	}
	tmpl, err := loadClubTemplate(ctx, input.ClubID, input.Assignment.TemplateID, deps.TemplateStore)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if !tmpl.Active {
		return assignment.Assignment{}, ErrTemplateInactive
	}

	a := assignment.Assignment{
		ClubID:      input.ClubID,
		TrainerID:   t.ID,
		TrainerName: t.Name,
		TemplateID:  tmpl.ID,
		StartDate:   input.Assignment.StartDate,
		EndDate:     input.Assignment.EndDate,
		Active:      true,
		Notes:       input.Assignment.Notes,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}

	existing, err := deps.AssignmentStore.ListByTrainer(ctx, t.ID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	for _, ex := range existing {
		if a.Overlaps(ex) {
			return assignment.Assignment{}, ErrAssignmentOverlap
		}
	}

	id, err := deps.AssignmentStore.Create(ctx, a)
	if err != nil {
		return assignment.Assignment{}, err
	}
	a.ID = id
	slog.Info("roster_event", "event", "assignment_added", "club_id", a.ClubID, "trainer_id", a.TrainerID, "assignment_id", id, "template_id", a.TemplateID)
	return a, nil
}

// RestoreOccurrenceInput identifies a skipped assignment occurrence.
type RestoreOccurrenceInput struct {
	ClubID         string
	AssignmentID   int64
	Date           time.Time
	ActorTrainerID string // empty for admins
	ActorIsAdmin   bool
}

// ExecuteRestoreOccurrence undoes a scheduled unregister by removing the
// assignment exception for the date.
// PRE: Assignment belongs to ClubID; the actor is an admin or its trainer
// POST: Exception removed; the scheduled entry binds again
// INVARIANT: a trainer who signed up for the same slot in the meantime is
// not bound twice
func ExecuteRestoreOccurrence(ctx context.Context, input RestoreOccurrenceInput, deps AssignmentDeps) error {
	if input.Date.IsZero() {
		return assignment.ErrEmptyDate
	}
	a, err := deps.AssignmentStore.GetByID(ctx, input.AssignmentID)
	if err != nil {
		return err
	}
	if a.ClubID != input.ClubID {
		return ErrOccurrenceNotFound
	}
	if !input.ActorIsAdmin && a.TrainerID != input.ActorTrainerID {
		return ErrNotOwnEntry
	}

	date := period.Day(input.Date)
	own, err := deps.EntryStore.ListByTrainerRange(ctx, a.TrainerID, date, date)
	if err != nil {
		return err
	}
	key := slot.RegularKey(a.TemplateID)
	for _, e := range own {
		if e.Slot == key {
			return entry.ErrDuplicateEntry
		}
	}

	if err := deps.AssignmentStore.DeleteException(ctx, a.ID, date); err != nil {
		return err
	}
	slog.Info("roster_event", "event", "occurrence_restored", "club_id", input.ClubID, "trainer_id", a.TrainerID, "assignment_id", a.ID, "date", period.FormatDate(date))
	return nil
}

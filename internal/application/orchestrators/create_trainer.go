package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/trainer"
)

// AssignmentInput is one recurring assignment of a new trainer.
type AssignmentInput struct {
	TemplateID int64
	StartDate  time.Time
	EndDate    *time.Time
	Notes      string
}

// CreateTrainerInput carries input for the orchestrator.
type CreateTrainerInput struct {
	ClubID      string
	Name        string
	Email       string
	Assignments []AssignmentInput
	CreatedBy   string
}

// CreateTrainerDeps holds dependencies for CreateTrainer.
type CreateTrainerDeps struct {
	TrainerStore  TrainerStore
	TemplateStore TemplateStore
	GenerateID    func() string
	Now           func() time.Time
}

// CreateTrainerResult carries the stored trainer and assignment ids.
type CreateTrainerResult struct {
	Trainer       trainer.Trainer
	AssignmentIDs []int64
}

// ExecuteCreateTrainer registers a trainer together with their assignments.
// PRE: at least one assignment on an active template of ClubID
// POST: Trainer and assignments stored atomically
// INVARIANT: emails are unique ignoring case
func ExecuteCreateTrainer(ctx context.Context, input CreateTrainerInput, deps CreateTrainerDeps) (CreateTrainerResult, error) {
	now := deps.Now()
	t := trainer.Trainer{
		ID:        deps.GenerateID(),
		ClubID:    input.ClubID,
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: now,
	}
	if err := t.Validate(); err != nil {
		return CreateTrainerResult{}, err
	}
	if len(input.Assignments) == 0 {
		return CreateTrainerResult{}, trainer.ErrNoAssignments
	}

	if _, err := deps.TrainerStore.GetByEmail(ctx, t.Email); err == nil {
		return CreateTrainerResult{}, trainer.ErrEmailTaken
	} else if !apperr.IsNotFound(err) {
		return CreateTrainerResult{}, err
	}

	assignments := make([]assignment.Assignment, 0, len(input.Assignments))
	for _, in := range input.Assignments {
		tmpl, err := loadClubTemplate(ctx, input.ClubID, in.TemplateID, deps.TemplateStore)
		if err != nil {
			return CreateTrainerResult{}, err
		}
		if !tmpl.Active {
			return CreateTrainerResult{}, ErrTemplateInactive
		}
		a := assignment.Assignment{
			ClubID:      input.ClubID,
			TrainerID:   t.ID,
			TrainerName: t.Name,
			TemplateID:  tmpl.ID,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Active:      true,
			Notes:       in.Notes,
			CreatedBy:   input.CreatedBy,
			CreatedAt:   now,
		}
		if err := a.Validate(); err != nil {
			return CreateTrainerResult{}, err
		}
		assignments = append(assignments, a)
	}

	ids, err := deps.TrainerStore.Create(ctx, t, assignments)
	if err != nil {
		return CreateTrainerResult{}, err
	}
	slog.Info("user_event", "event", "trainer_created", "club_id", t.ClubID, "trainer_id", t.ID, "assignments", len(ids))
	return CreateTrainerResult{Trainer: t, AssignmentIDs: ids}, nil
}

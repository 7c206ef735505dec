package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/weekly"
)

// ErrTemplateNotFound is returned for templates of another club.
var ErrTemplateNotFound = apperr.NotFound("training template not found")

// TemplateInput carries the editable fields of a weekly template.
type TemplateInput struct {
	ClubID     string
	TemplateID int64 // zero on create
	Weekday    time.Weekday
	TimeStart  string
	TimeEnd    string
}

// TemplateDeps holds dependencies for template management.
type TemplateDeps struct {
	TemplateStore TemplateStore
}

// ExecuteCreateTemplate adds an active weekly template.
// PRE: ClubID, Weekday and TimeStart are set
// POST: Template stored and returned with its ID
func ExecuteCreateTemplate(ctx context.Context, input TemplateInput, deps TemplateDeps) (weekly.Template, error) {
	t := weekly.Template{
		ClubID:    input.ClubID,
		Weekday:   input.Weekday,
		TimeStart: input.TimeStart,
		TimeEnd:   input.TimeEnd,
		Active:    true,
	}
	if err := t.Validate(); err != nil {
		return weekly.Template{}, err
	}
	id, err := deps.TemplateStore.Create(ctx, t)
	if err != nil {
		return weekly.Template{}, err
	}
	t.ID = id
	slog.Info("template_event", "event", "template_created", "club_id", t.ClubID, "template_id", id, "weekday", int(t.Weekday), "time_start", t.TimeStart)
	return t, nil
}

// ExecuteUpdateTemplate changes weekday and times of a template.
// Existing overrides and entries keep pointing at the template.
// PRE: Template belongs to ClubID
// POST: Template updated; Active is unchanged
func ExecuteUpdateTemplate(ctx context.Context, input TemplateInput, deps TemplateDeps) (weekly.Template, error) {
	t, err := loadClubTemplate(ctx, input.ClubID, input.TemplateID, deps.TemplateStore)
	if err != nil {
		return weekly.Template{}, err
	}
	t.Weekday, t.TimeStart, t.TimeEnd = input.Weekday, input.TimeStart, input.TimeEnd
	if err := t.Validate(); err != nil {
		return weekly.Template{}, err
	}
	if err := deps.TemplateStore.Update(ctx, t); err != nil {
		return weekly.Template{}, err
	}
	slog.Info("template_event", "event", "template_updated", "club_id", t.ClubID, "template_id", t.ID)
	return t, nil
}

// ExecuteSetTemplateActive soft-deletes or restores a template.
// Cancellations stored against it stay and apply again once it is active.
// PRE: Template belongs to clubID
// POST: Template.Active == active
func ExecuteSetTemplateActive(ctx context.Context, clubID string, templateID int64, active bool, deps TemplateDeps) error {
	t, err := loadClubTemplate(ctx, clubID, templateID, deps.TemplateStore)
	if err != nil {
		return err
	}
	if t.Active == active {
		return nil
	}
	t.Active = active
	if err := deps.TemplateStore.Update(ctx, t); err != nil {
		return err
	}
	event := "template_deactivated"
	if active {
		event = "template_reactivated"
	}
	slog.Info("template_event", "event", event, "club_id", clubID, "template_id", templateID)
	return nil
}

func loadClubTemplate(ctx context.Context, clubID string, id int64, store TemplateStore) (weekly.Template, error) {
	t, err := store.GetByID(ctx, id)
	if err != nil {
		return weekly.Template{}, err
	}
	if t.ClubID != clubID {
		return weekly.Template{}, ErrTemplateNotFound
	}
	return t, nil
}

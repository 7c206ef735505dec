package projections

import (
	"context"
	"fmt"
	"time"

	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/roster"
	"dojoroster/internal/domain/slot"
	"dojoroster/internal/domain/trainer"
	"dojoroster/internal/domain/weekly"
)

// TemplateStore lists a club's weekly templates.
type TemplateStore interface {
	ListByClub(ctx context.Context, clubID string, includeInactive bool) ([]weekly.Template, error)
}

// OverrideStore lists a club's overrides in a date range.
type OverrideStore interface {
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]override.Override, error)
}

// EntryStore lists a club's real entries in a date range.
type EntryStore interface {
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]entry.Entry, error)
}

// AssignmentStore lists a club's assignments and their exceptions.
type AssignmentStore interface {
	ListByClub(ctx context.Context, clubID string) ([]assignment.Assignment, error)
	ListExceptions(ctx context.Context, clubID string, start, end time.Time) ([]assignment.Exception, error)
}

// TrainerStore reads trainers.
type TrainerStore interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	List(ctx context.Context) ([]trainer.Trainer, error)
}

// AdminStore lists admins.
type AdminStore interface {
	List(ctx context.Context) ([]admin.Admin, error)
}

// ScheduleDeps holds the stores every schedule read needs.
type ScheduleDeps struct {
	TemplateStore   TemplateStore
	OverrideStore   OverrideStore
	EntryStore      EntryStore
	AssignmentStore AssignmentStore
}

// SlotRoster pairs a slot with the entries bound to it.
type SlotRoster struct {
	Slot    slot.Slot
	Entries []entry.Entry
}

// loadSchedule resolves the slots of p and binds a roster per date.
// PRE: clubID is non-empty
// POST: Returns slots in resolver order and one roster per date that has slots
func loadSchedule(ctx context.Context, clubID string, p period.Period, deps ScheduleDeps) ([]slot.Slot, map[string]roster.Roster, error) {
	templates, err := deps.TemplateStore.ListByClub(ctx, clubID, false)
	if err != nil {
		return nil, nil, fmt.Errorf("list templates: %w", err)
	}
	overrides, err := deps.OverrideStore.ListByClubRange(ctx, clubID, p.Start, p.End)
	if err != nil {
		return nil, nil, fmt.Errorf("list overrides: %w", err)
	}
	entries, err := deps.EntryStore.ListByClubRange(ctx, clubID, p.Start, p.End)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}
	assignments, err := deps.AssignmentStore.ListByClub(ctx, clubID)
	if err != nil {
		return nil, nil, fmt.Errorf("list assignments: %w", err)
	}
	exceptions, err := deps.AssignmentStore.ListExceptions(ctx, clubID, p.Start, p.End)
	if err != nil {
		return nil, nil, fmt.Errorf("list exceptions: %w", err)
	}

	slots := slot.ResolveSlots(p, templates, overrides)
	return slots, roster.BindPeriod(slots, entries, assignments, exceptions), nil
}

func slotRosters(slots []slot.Slot, r roster.Roster) []SlotRoster {
	out := make([]SlotRoster, 0, len(slots))
	for _, s := range slots {
		entries := r[s.Key()]
		if entries == nil {
			entries = []entry.Entry{}
		}
		out = append(out, SlotRoster{Slot: s, Entries: entries})
	}
	return out
}

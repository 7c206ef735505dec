package orchestrators

import (
	"context"
	"fmt"
	"time"

	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/roster"
	"dojoroster/internal/domain/slot"
)

// dayReaders are the stores needed to rebuild one day's roster.
type dayReaders struct {
	templates   TemplateLister
	overrides   OverrideLister
	entries     EntryStore
	assignments AssignmentStore
}

// loadDay resolves the slots of date and binds their roster from fresh reads.
// PRE: clubID is non-empty
// POST: Returns the day's slots in order and a roster with one key per slot
func loadDay(ctx context.Context, clubID string, date time.Time, r dayReaders) ([]slot.Slot, roster.Roster, error) {
	day := period.Day(date)
	p := period.Period{Start: day, End: day}

	templates, err := r.templates.ListByClub(ctx, clubID, false)
	if err != nil {
		return nil, nil, fmt.Errorf("list templates: %w", err)
	}
	overrides, err := r.overrides.ListByClubRange(ctx, clubID, day, day)
	if err != nil {
		return nil, nil, fmt.Errorf("list overrides: %w", err)
	}
	entries, err := r.entries.ListByClubRange(ctx, clubID, day, day)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}
	assignments, err := r.assignments.ListByClub(ctx, clubID)
	if err != nil {
		return nil, nil, fmt.Errorf("list assignments: %w", err)
	}
	exceptions, err := r.assignments.ListExceptions(ctx, clubID, day, day)
	if err != nil {
		return nil, nil, fmt.Errorf("list exceptions: %w", err)
	}

	slots := slot.ResolveSlots(p, templates, overrides)
	return slots, roster.BindRoster(slots, entries, assignments, exceptions, day), nil
}

func findSlot(slots []slot.Slot, key slot.Key) (slot.Slot, bool) {
	for _, s := range slots {
		if s.Key() == key {
			return s, true
		}
	}
	return slot.Slot{}, false
}

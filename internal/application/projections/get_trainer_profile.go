package projections

import (
	"context"
	"fmt"
	"slices"
	"time"

	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/roster"
	"dojoroster/internal/domain/trainer"
)

// ProfileWindowMonths is how many months before and after today a profile covers.
const ProfileWindowMonths = 3

// GetTrainerProfileQuery carries query parameters.
type GetTrainerProfileQuery struct {
	TrainerID string
	Month     string    // optional YYYY-MM filter on upcoming entries
	Today     time.Time // optional: if zero, time.Now() is used
}

// MonthGroup holds a trainer's bindings within one calendar month.
type MonthGroup struct {
	Month    string // YYYY-MM
	Bindings []roster.Binding
}

// GetTrainerProfileResult carries the query result.
type GetTrainerProfileResult struct {
	Trainer         trainer.Trainer
	Next            *roster.Binding
	Upcoming        []MonthGroup // ascending
	Past            []MonthGroup // descending
	AvailableMonths []string     // months with upcoming bindings, before the filter
	Month           string
}

// GetTrainerProfileDeps holds dependencies for QueryGetTrainerProfile.
type GetTrainerProfileDeps struct {
	ScheduleDeps
	TrainerStore TrainerStore
}

// QueryGetTrainerProfile lists a trainer's real and scheduled entries around today.
// PRE: query.TrainerID is non-empty; query.Month is empty or YYYY-MM
// POST: Upcoming includes today; Next is the first upcoming binding regardless
// of the month filter
func QueryGetTrainerProfile(ctx context.Context, query GetTrainerProfileQuery, deps GetTrainerProfileDeps) (GetTrainerProfileResult, error) {
	if query.Month != "" {
		if _, err := period.ParseMonth(query.Month); err != nil {
			return GetTrainerProfileResult{}, err
		}
	}
	t, err := deps.TrainerStore.GetByID(ctx, query.TrainerID)
	if err != nil {
		return GetTrainerProfileResult{}, fmt.Errorf("get trainer: %w", err)
	}

	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = period.Day(today)
	start := period.Month(today.Year(), today.Month()).Start.AddDate(0, -ProfileWindowMonths, 0)
	end := period.Month(today.Year(), today.Month()).Start.AddDate(0, ProfileWindowMonths+1, -1)

	slots, rosters, err := loadSchedule(ctx, t.ClubID, period.Period{Start: start, End: end}, deps.ScheduleDeps)
	if err != nil {
		return GetTrainerProfileResult{}, err
	}

	var upcoming, past []roster.Binding
	for _, b := range roster.ForTrainer(slots, rosters, t.ID) {
		if b.Slot.Date.Before(today) {
			past = append(past, b)
		} else {
			upcoming = append(upcoming, b)
		}
	}
	slices.Reverse(past)

	result := GetTrainerProfileResult{Trainer: t, Month: query.Month}
	if len(upcoming) > 0 {
		next := upcoming[0]
		result.Next = &next
	}
	groups := groupByMonth(upcoming)
	for _, g := range groups {
		result.AvailableMonths = append(result.AvailableMonths, g.Month)
	}
	if query.Month != "" {
		groups = slices.DeleteFunc(groups, func(g MonthGroup) bool { return g.Month != query.Month })
	}
	result.Upcoming = groups
	result.Past = groupByMonth(past)
	return result, nil
}

// groupByMonth splits consecutive bindings into months, preserving order.
func groupByMonth(bindings []roster.Binding) []MonthGroup {
	var out []MonthGroup
	for _, b := range bindings {
		m := b.Slot.Date.Format(period.MonthLayout)
		if n := len(out); n > 0 && out[n-1].Month == m {
			out[n-1].Bindings = append(out[n-1].Bindings, b)
			continue
		}
		out = append(out, MonthGroup{Month: m, Bindings: []roster.Binding{b}})
	}
	return out
}

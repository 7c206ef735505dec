package projections

import (
	"context"
	"time"

	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/roster"
	"dojoroster/internal/domain/slot"
)

// GetClubScheduleQuery carries query parameters.
type GetClubScheduleQuery struct {
	ClubID string
	Period period.Period
}

// ScheduleDay is one calendar day of a club schedule.
type ScheduleDay struct {
	Date     time.Time
	Training bool // an uncancelled slot exists
	Slots    []SlotRoster
}

// GetClubScheduleResult carries the query result.
type GetClubScheduleResult struct {
	Period  period.Period
	Days    []ScheduleDay
	Missing []slot.Slot
	Grid    []time.Time // set only when Period is a whole month
}

// QueryGetClubSchedule resolves a club's slots for a period and binds their rosters.
// PRE: query.Period is valid
// POST: Days holds every date of the period in order; Missing lists slots
// that take sign-ups but have an empty roster
func QueryGetClubSchedule(ctx context.Context, query GetClubScheduleQuery, deps ScheduleDeps) (GetClubScheduleResult, error) {
	slots, rosters, err := loadSchedule(ctx, query.ClubID, query.Period, deps)
	if err != nil {
		return GetClubScheduleResult{}, err
	}

	byDate := slot.GroupByDate(slots)
	days := make([]ScheduleDay, 0, len(query.Period.Days()))
	for _, d := range query.Period.Days() {
		key := period.FormatDate(d)
		days = append(days, ScheduleDay{
			Date:     d,
			Training: slot.IsTrainingDay(d, byDate[key]),
			Slots:    slotRosters(byDate[key], rosters[key]),
		})
	}

	result := GetClubScheduleResult{
		Period:  query.Period,
		Days:    days,
		Missing: roster.MissingTrainers(slots, rosters),
	}
	if isWholeMonth(query.Period) {
		result.Grid = period.CalendarGrid(query.Period.Start)
	}
	return result, nil
}

func isWholeMonth(p period.Period) bool {
	return p == period.Month(p.Start.Year(), p.Start.Month())
}

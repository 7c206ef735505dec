package projections

import (
	"context"
	"time"

	"dojoroster/internal/domain/period"
)

// GetDayDetailQuery carries query parameters.
type GetDayDetailQuery struct {
	ClubID string
	Date   time.Time
}

// GetDayDetailResult carries the query result.
type GetDayDetailResult struct {
	Date     time.Time
	Training bool
	Slots    []SlotRoster // cancelled slots included
}

// QueryGetDayDetail returns one day's slots with their rosters.
// PRE: query.ClubID is non-empty
// POST: Slots are in resolver order; every slot carries a non-nil entry list
func QueryGetDayDetail(ctx context.Context, query GetDayDetailQuery, deps ScheduleDeps) (GetDayDetailResult, error) {
	day := period.Day(query.Date)
	slots, rosters, err := loadSchedule(ctx, query.ClubID, period.Period{Start: day, End: day}, deps)
	if err != nil {
		return GetDayDetailResult{}, err
	}
	out := GetDayDetailResult{Date: day, Slots: slotRosters(slots, rosters[period.FormatDate(day)])}
	for _, sr := range out.Slots {
		if !sr.Slot.Cancelled {
			out.Training = true
		}
	}
	return out, nil
}

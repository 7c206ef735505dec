package projections

import (
	"context"
	"testing"
	"time"
)

// TestQueryGetDayDetail verifies per-day rosters including cancelled slots.
func TestQueryGetDayDetail(t *testing.T) {
	tests := []struct {
		name         string
		date         int
		wantSlots    int
		wantTraining bool
		wantEntries  []int
	}{
		{"extra and regular", 4, 2, true, []int{1, 1}},
		{"event only", 5, 1, true, []int{0}},
		{"cancelled keeps its slot", 18, 1, false, []int{1}},
		{"exception removes scheduled entry", 25, 1, true, []int{0}},
		{"no training", 7, 0, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryGetDayDetail(context.Background(), GetDayDetailQuery{
				ClubID: "c1", Date: day(2024, 3, tt.date).Add(15 * time.Hour),
			}, newScheduleDeps())
			if err != nil {
				t.Fatalf("QueryGetDayDetail: %v", err)
			}
			if !res.Date.Equal(day(2024, 3, tt.date)) {
				t.Errorf("Date = %v, want midnight", res.Date)
			}
			if len(res.Slots) != tt.wantSlots || res.Training != tt.wantTraining {
				t.Fatalf("slots = %d training = %v, want %d %v", len(res.Slots), res.Training, tt.wantSlots, tt.wantTraining)
			}
			for i, sr := range res.Slots {
				if sr.Entries == nil {
					t.Errorf("slot %d has nil entries", i)
				}
				if len(sr.Entries) != tt.wantEntries[i] {
					t.Errorf("slot %d entries = %d, want %d", i, len(sr.Entries), tt.wantEntries[i])
				}
			}
		})
	}
}

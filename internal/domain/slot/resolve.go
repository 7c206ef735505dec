package slot

import (
	"sort"
	"time"

	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/weekly"
)

// ResolveSlots merges weekly templates with per-date overrides over p.
// PRE: templates and overrides belong to the same club
// POST: Returns slots ordered by (date, time_start); on ties template
// occurrences keep their input order and precede extras
// INVARIANT: inputs are not mutated
func ResolveSlots(p period.Period, templates []weekly.Template, overrides []override.Override) []Slot {
	var cancels, standalone []override.Override
	for _, o := range overrides {
		switch {
		case o.IsCancel():
			cancels = append(cancels, o)
		case o.IsStandalone():
			standalone = append(standalone, o)
		}
	}

	var slots []Slot
	for _, d := range p.Days() {
		for _, t := range templates {
			if !t.OccursOn(d) {
				continue
			}
			s := Slot{
				Date:       d,
				Weekday:    d.Weekday(),
				TimeStart:  t.TimeStart,
				TimeEnd:    t.TimeEnd,
				TemplateID: t.ID,
			}
			if c, ok := findCancel(cancels, t.ID, d); ok {
				id := c.ID
				s.Cancelled = true
				s.Reason = c.Reason
				s.OverrideID = &id
			}
			slots = append(slots, s)
		}
	}

	for _, o := range standalone {
		if !p.Contains(o.Date) {
			continue
		}
		d := period.Day(o.Date)
		id := o.ID
		start := o.TimeStart
		if start == "" {
			start = DefaultStartTime
		}
		slots = append(slots, Slot{
			Date:       d,
			Weekday:    d.Weekday(),
			TimeStart:  start,
			TimeEnd:    o.TimeEnd,
			TemplateID: SentinelTemplateID,
			OverrideID: &id,
			Extra:      true,
			Event:      !o.RequiresRoster(),
			Reason:     o.Reason,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].TimeStart < slots[j].TimeStart
	})
	return slots
}

// ResolveMonth resolves the slots of a calendar month.
func ResolveMonth(year int, month time.Month, templates []weekly.Template, overrides []override.Override) []Slot {
	return ResolveSlots(period.Month(year, month), templates, overrides)
}

// findCancel returns the first cancellation that applies to the occurrence.
func findCancel(cancels []override.Override, templateID int64, d time.Time) (override.Override, bool) {
	for _, c := range cancels {
		if c.Cancels(templateID, d) {
			return c, true
		}
	}
	return override.Override{}, false
}

// GroupByDate groups slots by YYYY-MM-DD, preserving order within each day.
func GroupByDate(slots []Slot) map[string][]Slot {
	grouped := make(map[string][]Slot)
	for _, s := range slots {
		k := s.DateString()
		grouped[k] = append(grouped[k], s)
	}
	return grouped
}

// ForDate returns the slots on d. Cancelled slots are dropped unless
// includeCancelled is set.
func ForDate(slots []Slot, d time.Time, includeCancelled bool) []Slot {
	var out []Slot
	for _, s := range slots {
		if !period.SameDay(s.Date, d) {
			continue
		}
		if s.Cancelled && !includeCancelled {
			continue
		}
		out = append(out, s)
	}
	return out
}

// IsTrainingDay reports whether any uncancelled slot falls on d.
func IsTrainingDay(d time.Time, slots []Slot) bool {
	return len(ForDate(slots, d, false)) > 0
}

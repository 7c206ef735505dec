// Package roster binds trainer sign-ups to resolved slots.
package roster

import (
	"time"

	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
)

// Roster maps each slot on one date to the trainers bound to it.
type Roster map[slot.Key][]entry.Entry

// BindRoster builds the roster of date from stored entries and assignment
// occurrences.
// PRE: slots, entries and assignments belong to the same club
// POST: every slot on date has a key, possibly with an empty roster; a
// trainer appears at most once per key
// INVARIANT: entries are matched by slot key only, so template and override
// ids never cross-bind
func BindRoster(slots []slot.Slot, entries []entry.Entry, assignments []assignment.Assignment, exceptions []assignment.Exception, date time.Time) Roster {
	return bind(slot.ForDate(slots, date, true), entries, assignments, assignment.NewExceptionSet(exceptions), date)
}

// BindPeriod binds every date that has slots, keyed by YYYY-MM-DD.
func BindPeriod(slots []slot.Slot, entries []entry.Entry, assignments []assignment.Assignment, exceptions []assignment.Exception) map[string]Roster {
	set := assignment.NewExceptionSet(exceptions)
	byDate := make(map[string][]entry.Entry)
	for _, e := range entries {
		k := period.FormatDate(e.Date)
		byDate[k] = append(byDate[k], e)
	}
	out := make(map[string]Roster)
	for date, daySlots := range slot.GroupByDate(slots) {
		out[date] = bind(daySlots, byDate[date], assignments, set, daySlots[0].Date)
	}
	return out
}

func bind(daySlots []slot.Slot, entries []entry.Entry, assignments []assignment.Assignment, exceptions assignment.ExceptionSet, date time.Time) Roster {
	r := make(Roster, len(daySlots))
	for _, s := range daySlots {
		if _, ok := r[s.Key()]; !ok {
			r[s.Key()] = []entry.Entry{}
		}
	}

	for _, e := range entries {
		if !period.SameDay(e.Date, date) {
			continue
		}
		list, ok := r[e.Slot]
		if !ok {
			continue
		}
		if entry.CheckDuplicate(list, e) != nil {
			continue
		}
		r[e.Slot] = append(list, e)
	}

	for _, s := range daySlots {
		if s.Extra {
			continue
		}
		for _, v := range Materialize(s, assignments, exceptions) {
			list := r[s.Key()]
			if entry.CheckDuplicate(list, v) != nil {
				continue
			}
			r[s.Key()] = append(list, v)
		}
	}
	return r
}

// Materialize returns the scheduled entries that assignments contribute to
// a regular slot. Extra and event slots never receive scheduled entries.
func Materialize(s slot.Slot, assignments []assignment.Assignment, exceptions assignment.ExceptionSet) []entry.Entry {
	if s.Extra {
		return nil
	}
	var out []entry.Entry
	for _, a := range assignments {
		if !a.Active || a.TemplateID != s.TemplateID || !a.Covers(s.Date) {
			continue
		}
		if exceptions.Has(a.ID, s.Date) {
			continue
		}
		out = append(out, entry.NewScheduled(a.ClubID, a.ID, a.TemplateID, s.Date, a.TrainerID, a.TrainerName))
	}
	return out
}

// CheckSignUp fails with entry.ErrDuplicateEntry when the candidate's trainer
// already holds a real or scheduled binding in r.
func CheckSignUp(r Roster, candidate entry.Entry) error {
	return entry.CheckDuplicate(r[candidate.Slot], candidate)
}

// MissingTrainers returns slots that take sign-ups but have nobody bound.
// Cancelled slots and events are never reported.
func MissingTrainers(slots []slot.Slot, rosters map[string]Roster) []slot.Slot {
	var out []slot.Slot
	for _, s := range slots {
		if !s.TakesSignUps() {
			continue
		}
		if len(rosters[s.DateString()][s.Key()]) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// ForTrainer returns the trainer's bindings across rosters in slot order.
func ForTrainer(slots []slot.Slot, rosters map[string]Roster, trainerID string) []Binding {
	var out []Binding
	for _, s := range slots {
		for _, e := range rosters[s.DateString()][s.Key()] {
			if e.TrainerID == trainerID {
				out = append(out, Binding{Slot: s, Entry: e})
			}
		}
	}
	return out
}

// Binding pairs an entry with the slot it is bound to.
type Binding struct {
	Slot  slot.Slot
	Entry entry.Entry
}

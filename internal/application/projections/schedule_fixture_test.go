package projections

import (
	"context"
	"time"

	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
	"dojoroster/internal/domain/trainer"
	"dojoroster/internal/domain/weekly"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func inRange(d, start, end time.Time) bool {
	d = period.Day(d)
	return !d.Before(start) && !d.After(end)
}

type mockTemplateStore struct{ templates []weekly.Template }

func (m *mockTemplateStore) ListByClub(_ context.Context, clubID string, includeInactive bool) ([]weekly.Template, error) {
	var out []weekly.Template
	for _, t := range m.templates {
		if t.ClubID == clubID && (t.Active || includeInactive) {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockOverrideStore struct{ overrides []override.Override }

func (m *mockOverrideStore) ListByClubRange(_ context.Context, clubID string, start, end time.Time) ([]override.Override, error) {
	var out []override.Override
	for _, o := range m.overrides {
		if o.ClubID == clubID && inRange(o.Date, start, end) {
			out = append(out, o)
		}
	}
	return out, nil
}

type mockEntryStore struct{ entries []entry.Entry }

func (m *mockEntryStore) ListByClubRange(_ context.Context, clubID string, start, end time.Time) ([]entry.Entry, error) {
	var out []entry.Entry
	for _, e := range m.entries {
		if e.ClubID == clubID && inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockAssignmentStore struct {
	assignments []assignment.Assignment
	exceptions  []assignment.Exception
}

func (m *mockAssignmentStore) ListByClub(_ context.Context, clubID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range m.assignments {
		if a.ClubID == clubID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentStore) ListExceptions(_ context.Context, _ string, start, end time.Time) ([]assignment.Exception, error) {
	var out []assignment.Exception
	for _, e := range m.exceptions {
		if inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockTrainerStore struct{ trainers []trainer.Trainer }

func (m *mockTrainerStore) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	for _, t := range m.trainers {
		if t.ID == id {
			return t, nil
		}
	}
	return trainer.Trainer{}, apperr.NotFound("trainer not found")
}

func (m *mockTrainerStore) List(_ context.Context) ([]trainer.Trainer, error) {
	return m.trainers, nil
}

type mockAdminStore struct{ admins []admin.Admin }

func (m *mockAdminStore) List(_ context.Context) ([]admin.Admin, error) {
	return m.admins, nil
}

func realEntry(id int64, key slot.Key, d time.Time, trainerID, name string) entry.Entry {
	e := entry.NewReal("c1", key, d, trainerID, name, "")
	e.Ref = entry.RealRef{ID: id}
	return e
}

// newScheduleDeps seeds club c1 for March 2024: Monday template 7, Wednesday
// template 8, an extra whose override id is also 7 on the 4th, an event on
// the 5th and a cancellation of template 7 on the 18th. Ben holds template 7
// from March 1st with an exception on the 25th. Anna signed up for the extra
// on the 4th and for template 8 on the 13th.
func newScheduleDeps() ScheduleDeps {
	extra := override.NewExtra("c1", day(2024, 3, 4), "10:00", "11:00", "Kids open mat")
	extra.ID = 7
	event := override.NewEvent("c1", day(2024, 3, 5), "19:00", "", "Summer party")
	event.ID = 9
	cancel := override.NewCancel("c1", day(2024, 3, 18), 7, "Holiday")
	cancel.ID = 10
	return ScheduleDeps{
		TemplateStore: &mockTemplateStore{templates: []weekly.Template{
			{ID: 7, ClubID: "c1", Weekday: time.Monday, TimeStart: "18:00", TimeEnd: "19:30", Active: true},
			{ID: 8, ClubID: "c1", Weekday: time.Wednesday, TimeStart: "18:00", Active: true},
			{ID: 9, ClubID: "c1", Weekday: time.Friday, TimeStart: "18:00", Active: false},
			{ID: 20, ClubID: "c2", Weekday: time.Monday, TimeStart: "17:00", Active: true},
		}},
		OverrideStore: &mockOverrideStore{overrides: []override.Override{extra, event, cancel}},
		EntryStore: &mockEntryStore{entries: []entry.Entry{
			realEntry(1, slot.ExtraKey(7), day(2024, 3, 4), "t-anna", "Anna"),
			realEntry(2, slot.RegularKey(8), day(2024, 3, 13), "t-anna", "Anna"),
		}},
		AssignmentStore: &mockAssignmentStore{
			assignments: []assignment.Assignment{{
				ID: 1, ClubID: "c1", TrainerID: "t-ben", TrainerName: "Ben", TemplateID: 7,
				StartDate: day(2024, 3, 1), Active: true,
			}},
			exceptions: []assignment.Exception{{AssignmentID: 1, Date: day(2024, 3, 25), Reason: "away"}},
		},
	}
}

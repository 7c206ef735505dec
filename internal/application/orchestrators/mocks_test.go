package orchestrators

import (
	"context"
	"sort"
	"time"

	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/club"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/identity"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/trainer"
	"dojoroster/internal/domain/weekly"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func nowFn() time.Time { return testNow }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func inRange(d, start, end time.Time) bool {
	d = period.Day(d)
	return !d.Before(period.Day(start)) && !d.After(period.Day(end))
}

// memTemplates implements TemplateStore.
type memTemplates struct {
	rows   map[int64]weekly.Template
	nextID int64
}

func newMemTemplates(ts ...weekly.Template) *memTemplates {
	m := &memTemplates{rows: make(map[int64]weekly.Template), nextID: 100}
	for _, t := range ts {
		m.rows[t.ID] = t
	}
	return m
}

func (m *memTemplates) GetByID(_ context.Context, id int64) (weekly.Template, error) {
	t, ok := m.rows[id]
	if !ok {
		return weekly.Template{}, apperr.NotFound("training template not found")
	}
	return t, nil
}

func (m *memTemplates) Create(_ context.Context, t weekly.Template) (int64, error) {
	m.nextID++
	t.ID = m.nextID
	m.rows[t.ID] = t
	return t.ID, nil
}

func (m *memTemplates) Update(_ context.Context, t weekly.Template) error {
	if _, ok := m.rows[t.ID]; !ok {
		return apperr.NotFound("training template not found")
	}
	m.rows[t.ID] = t
	return nil
}

func (m *memTemplates) ListByClub(_ context.Context, clubID string, includeInactive bool) ([]weekly.Template, error) {
	var out []weekly.Template
	for _, t := range m.rows {
		if t.ClubID == clubID && (includeInactive || t.Active) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memOverrides implements OverrideStore, including the targeted cancel
// uniqueness of the real schema.
type memOverrides struct {
	rows   map[int64]override.Override
	nextID int64
}

func newMemOverrides(os ...override.Override) *memOverrides {
	m := &memOverrides{rows: make(map[int64]override.Override), nextID: 500}
	for _, o := range os {
		m.rows[o.ID] = o
	}
	return m
}

func (m *memOverrides) GetByID(_ context.Context, id int64) (override.Override, error) {
	o, ok := m.rows[id]
	if !ok {
		return override.Override{}, apperr.NotFound("override not found")
	}
	return o, nil
}

func (m *memOverrides) Create(_ context.Context, o override.Override) (int64, error) {
	for _, ex := range m.rows {
		if o.TemplateID != nil && ex.TemplateID != nil && *ex.TemplateID == *o.TemplateID && period.SameDay(ex.Date, o.Date) {
			return 0, apperr.Duplicate("training is already cancelled on this date")
		}
	}
	m.nextID++
	o.ID = m.nextID
	m.rows[o.ID] = o
	return o.ID, nil
}

func (m *memOverrides) Update(_ context.Context, o override.Override) error {
	if _, ok := m.rows[o.ID]; !ok {
		return apperr.NotFound("override not found")
	}
	m.rows[o.ID] = o
	return nil
}

func (m *memOverrides) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("override not found")
	}
	delete(m.rows, id)
	return nil
}

func (m *memOverrides) ListByClubRange(_ context.Context, clubID string, start, end time.Time) ([]override.Override, error) {
	var out []override.Override
	for _, o := range m.rows {
		if o.ClubID == clubID && inRange(o.Date, start, end) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memEntries implements EntryStore with the composite unique constraint.
type memEntries struct {
	rows    map[int64]entry.Entry
	nextID  int64
	deletes int
}

func newMemEntries(es ...entry.Entry) *memEntries {
	m := &memEntries{rows: make(map[int64]entry.Entry)}
	for _, e := range es {
		m.rows[e.Ref.(entry.RealRef).ID] = e
		if id := e.Ref.(entry.RealRef).ID; id > m.nextID {
			m.nextID = id
		}
	}
	return m
}

func (m *memEntries) GetByID(_ context.Context, id int64) (entry.Entry, error) {
	e, ok := m.rows[id]
	if !ok {
		return entry.Entry{}, apperr.NotFound("entry not found")
	}
	return e, nil
}

func (m *memEntries) Create(_ context.Context, e entry.Entry) (int64, error) {
	for _, ex := range m.rows {
		if ex.Binds(e) {
			return 0, entry.ErrDuplicateEntry
		}
	}
	m.nextID++
	e.Ref = entry.RealRef{ID: m.nextID}
	m.rows[m.nextID] = e
	return m.nextID, nil
}

func (m *memEntries) Delete(_ context.Context, id int64) error {
	m.deletes++
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("entry not found")
	}
	delete(m.rows, id)
	return nil
}

func (m *memEntries) ListByClubRange(_ context.Context, clubID string, start, end time.Time) ([]entry.Entry, error) {
	var out []entry.Entry
	for _, e := range m.rows {
		if e.ClubID == clubID && inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ref.(entry.RealRef).ID < out[j].Ref.(entry.RealRef).ID
	})
	return out, nil
}

func (m *memEntries) ListByTrainerRange(_ context.Context, trainerID string, start, end time.Time) ([]entry.Entry, error) {
	var out []entry.Entry
	for _, e := range m.rows {
		if e.TrainerID == trainerID && inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ref.(entry.RealRef).ID < out[j].Ref.(entry.RealRef).ID
	})
	return out, nil
}

// memAssignments implements AssignmentStore.
type memAssignments struct {
	rows       map[int64]assignment.Assignment
	exceptions []assignment.Exception
	nextID     int64
}

func newMemAssignments(as ...assignment.Assignment) *memAssignments {
	m := &memAssignments{rows: make(map[int64]assignment.Assignment)}
	for _, a := range as {
		m.rows[a.ID] = a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	return m
}

func (m *memAssignments) Create(_ context.Context, a assignment.Assignment) (int64, error) {
	m.nextID++
	a.ID = m.nextID
	m.rows[a.ID] = a
	return a.ID, nil
}

func (m *memAssignments) ListByTrainer(_ context.Context, trainerID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range m.rows {
		if a.TrainerID == trainerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAssignments) DeleteException(_ context.Context, assignmentID int64, date time.Time) error {
	for i, e := range m.exceptions {
		if e.AssignmentID == assignmentID && period.SameDay(e.Date, date) {
			m.exceptions = append(m.exceptions[:i], m.exceptions[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("assignment exception not found")
}

func (m *memAssignments) GetByID(_ context.Context, id int64) (assignment.Assignment, error) {
	a, ok := m.rows[id]
	if !ok {
		return assignment.Assignment{}, apperr.NotFound("assignment not found")
	}
	return a, nil
}

func (m *memAssignments) ListByClub(_ context.Context, clubID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range m.rows {
		if a.ClubID == clubID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAssignments) SaveException(_ context.Context, e assignment.Exception) error {
	if assignment.NewExceptionSet(m.exceptions).Has(e.AssignmentID, e.Date) {
		return apperr.Duplicate("trainer is already unregistered for this date")
	}
	m.exceptions = append(m.exceptions, e)
	return nil
}

func (m *memAssignments) ListExceptions(_ context.Context, clubID string, start, end time.Time) ([]assignment.Exception, error) {
	var out []assignment.Exception
	for _, e := range m.exceptions {
		if a, ok := m.rows[e.AssignmentID]; ok && a.ClubID == clubID && inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// memTrainers implements TrainerStore.
type memTrainers struct {
	rows        map[string]trainer.Trainer
	assignments []assignment.Assignment
}

func newMemTrainers(ts ...trainer.Trainer) *memTrainers {
	m := &memTrainers{rows: make(map[string]trainer.Trainer)}
	for _, t := range ts {
		m.rows[t.ID] = t
	}
	return m
}

func (m *memTrainers) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	t, ok := m.rows[id]
	if !ok {
		return trainer.Trainer{}, apperr.NotFound("trainer not found")
	}
	return t, nil
}

func (m *memTrainers) GetByEmail(_ context.Context, email string) (trainer.Trainer, error) {
	for _, t := range m.rows {
		if identity.EmailKey(t.Email) == identity.EmailKey(email) {
			return t, nil
		}
	}
	return trainer.Trainer{}, apperr.NotFound("trainer not found")
}

func (m *memTrainers) Create(_ context.Context, t trainer.Trainer, as []assignment.Assignment) ([]int64, error) {
	m.rows[t.ID] = t
	ids := make([]int64, len(as))
	for i, a := range as {
		a.ID = int64(len(m.assignments) + 1)
		m.assignments = append(m.assignments, a)
		ids[i] = a.ID
	}
	return ids, nil
}

func (m *memTrainers) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("trainer not found")
	}
	delete(m.rows, id)
	return nil
}

// memClubs implements ClubStore.
type memClubs map[string]club.Club

func (m memClubs) GetByID(_ context.Context, id string) (club.Club, error) {
	c, ok := m[id]
	if !ok {
		return club.Club{}, apperr.NotFound("club not found")
	}
	return c, nil
}

func (m memClubs) Save(_ context.Context, c club.Club) error {
	for id, ex := range m {
		if id != c.ID && ex.Slug == c.Slug {
			return apperr.Duplicate("club slug already in use")
		}
	}
	m[c.ID] = c
	return nil
}

// memAdmins implements AdminStore.
type memAdmins struct {
	rows   map[int64]admin.Admin
	nextID int64
}

func newMemAdmins(as ...admin.Admin) *memAdmins {
	m := &memAdmins{rows: make(map[int64]admin.Admin)}
	for _, a := range as {
		m.rows[a.ID] = a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
	}
	return m
}

func (m *memAdmins) GetByID(_ context.Context, id int64) (admin.Admin, error) {
	a, ok := m.rows[id]
	if !ok {
		return admin.Admin{}, apperr.NotFound("admin not found")
	}
	return a, nil
}

func (m *memAdmins) GetByUsername(_ context.Context, username string) (admin.Admin, error) {
	for _, a := range m.rows {
		if a.Username == username {
			return a, nil
		}
	}
	return admin.Admin{}, apperr.NotFound("admin not found")
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (admin.Admin, error) {
	for _, a := range m.rows {
		if a.Email != "" && identity.EmailKey(a.Email) == identity.EmailKey(email) {
			return a, nil
		}
	}
	return admin.Admin{}, apperr.NotFound("admin not found")
}

func (m *memAdmins) Create(_ context.Context, a admin.Admin) (int64, error) {
	m.nextID++
	a.ID = m.nextID
	m.rows[a.ID] = a
	return a.ID, nil
}

func (m *memAdmins) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("admin not found")
	}
	delete(m.rows, id)
	return nil
}

func (m *memAdmins) List(_ context.Context) ([]admin.Admin, error) {
	out := make([]admin.Admin, 0, len(m.rows))
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAdmins) CountSuperAdmins(_ context.Context) (int, error) {
	n := 0
	for _, a := range m.rows {
		if a.SuperAdmin {
			n++
		}
	}
	return n, nil
}

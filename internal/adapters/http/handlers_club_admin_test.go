package web

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// TestHandleCreateOverride_Cancel verifies a targeted cancellation shows up
// in the schedule with its rendered reason.
func TestHandleCreateOverride_Cancel(t *testing.T) {
	mux := newTestServer(t)
	body := map[string]any{"kind": "cancel", "date": "2024-03-18", "template_id": 7, "reason": "**Gym closed**"}

	expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/overrides", body, &suedSess), http.StatusForbidden)
	expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/overrides", body, &annaSess), http.StatusForbidden)

	rec := do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/overrides", body, &nordSess)
	expectStatus(t, rec, http.StatusCreated)
	o := decode[overrideDTO](t, rec)
	if o.Kind != "cancel" || o.TemplateID == nil || *o.TemplateID != 7 || !strings.Contains(o.ReasonHTML, "<strong>Gym closed</strong>") {
		t.Errorf("override = %+v", o)
	}

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/schedule?month=2024-03", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	day := decode[scheduleDTO](t, rec).Days[17]
	if day.Date != "2024-03-18" || len(day.Slots) != 1 || !day.Slots[0].Slot.Cancelled || day.Slots[0].Slot.TakesSignUps {
		t.Errorf("March 18 = %+v", day)
	}

	signUp := map[string]any{"date": "2024-03-18", "slot_kind": "regular", "slot_id": 7}
	expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/entries", signUp, &annaSess), http.StatusBadRequest)

	lift := fmt.Sprintf("/api/clubs/dojo-nord/overrides?id=%d&only_cancel=true", o.ID)
	expectStatus(t, do(t, mux, http.MethodDelete, lift, nil, &nordSess), http.StatusNoContent)
	expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/entries", signUp, &annaSess), http.StatusCreated)
}

func TestHandleCreateOverride_Invalid(t *testing.T) {
	mux := newTestServer(t)
	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"cancel without template", map[string]any{"kind": "cancel", "date": "2024-03-18"}, http.StatusBadRequest},
		{"cancel on wrong weekday", map[string]any{"kind": "cancel", "date": "2024-03-19", "template_id": 7}, http.StatusBadRequest},
		{"cancel of foreign template", map[string]any{"kind": "cancel", "date": "2024-03-18", "template_id": 99}, http.StatusNotFound},
		{"unknown kind", map[string]any{"kind": "holiday", "date": "2024-03-18"}, http.StatusBadRequest},
		{"extra without start", map[string]any{"kind": "extra", "date": "2024-03-16"}, http.StatusBadRequest},
		{"event without description", map[string]any{"kind": "event", "date": "2024-03-16", "time_start": "10:00"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/overrides", tt.body, &nordSess), tt.want)
		})
	}
}

// TestOverrideLifecycle_Extra walks an extra training through create, edit
// and delete.
func TestOverrideLifecycle_Extra(t *testing.T) {
	mux := newTestServer(t)
	rec := do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/overrides",
		map[string]any{"kind": "extra", "date": "2024-03-16", "time_start": "10:00", "time_end": "12:00"}, &nordSess)
	expectStatus(t, rec, http.StatusCreated)
	o := decode[overrideDTO](t, rec)
	target := fmt.Sprintf("/api/clubs/dojo-nord/overrides?id=%d", o.ID)

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-03-16", nil, &annaSess)
	expectStatus(t, rec, http.StatusOK)
	d := decode[dayDTO](t, rec)
	if len(d.Slots) != 1 || d.Slots[0].Slot.Key != fmt.Sprintf("extra:%d", o.ID) || d.Slots[0].Slot.TemplateID != nil {
		t.Fatalf("Saturday = %+v", d)
	}

	expectStatus(t, do(t, mux, http.MethodPut, target, map[string]any{"kind": "event", "date": "2024-03-16"}, &nordSess), http.StatusBadRequest)

	rec = do(t, mux, http.MethodPut, target, map[string]any{"date": "2024-03-17", "time_start": "11:00", "reason": "Open mat"}, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if u := decode[overrideDTO](t, rec); u.Date != "2024-03-17" || u.TimeStart != "11:00" || u.TimeEnd != "" || u.Reason != "Open mat" {
		t.Errorf("updated = %+v", u)
	}

	signUp := map[string]any{"date": "2024-03-17", "slot_kind": "extra", "slot_id": o.ID}
	expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/entries", signUp, &annaSess), http.StatusCreated)
	expectStatus(t, do(t, mux, http.MethodPut, target, map[string]any{"date": "2024-03-18", "time_start": "11:00"}, &nordSess), http.StatusBadRequest)
	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-03-17", nil, &annaSess)
	expectStatus(t, rec, http.StatusOK)
	if d := decode[dayDTO](t, rec); len(d.Slots) != 1 || len(d.Slots[0].Entries) != 1 {
		t.Errorf("Sunday after refused move = %+v", d)
	}

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/overrides?month=2024-03", nil, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]overrideDTO](t, rec); len(list) != 1 {
		t.Errorf("overrides = %+v", list)
	}

	expectStatus(t, do(t, mux, http.MethodDelete, target+"&only_cancel=true", nil, &nordSess), http.StatusBadRequest)
	expectStatus(t, do(t, mux, http.MethodDelete, target, nil, &nordSess), http.StatusNoContent)
	expectStatus(t, do(t, mux, http.MethodDelete, target, nil, &nordSess), http.StatusNotFound)
}

func TestTemplateLifecycle(t *testing.T) {
	mux := newTestServer(t)
	rec := do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/templates",
		map[string]any{"weekday": 5, "time_start": "17:00", "time_end": "18:00"}, &nordSess)
	expectStatus(t, rec, http.StatusCreated)
	tmpl := decode[templateDTO](t, rec)
	if tmpl.ID == 0 || tmpl.Weekday != 5 || !tmpl.Active {
		t.Fatalf("template = %+v", tmpl)
	}
	target := fmt.Sprintf("/api/clubs/dojo-nord/templates?id=%d", tmpl.ID)

	rec = do(t, mux, http.MethodPut, target, map[string]any{"weekday": 0, "time_start": "10:00"}, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if u := decode[templateDTO](t, rec); u.Weekday != 0 || u.TimeStart != "10:00" {
		t.Errorf("updated = %+v", u)
	}

	expectStatus(t, do(t, mux, http.MethodDelete, target, nil, &nordSess), http.StatusNoContent)
	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-03-17", nil, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if d := decode[dayDTO](t, rec); d.Training {
		t.Errorf("deactivated template still resolves: %+v", d)
	}

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/templates", nil, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]templateDTO](t, rec); len(list) != 3 {
		t.Errorf("templates = %+v", list)
	}

	expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/templates/activate?id="+fmt.Sprint(tmpl.ID), nil, &nordSess), http.StatusNoContent)
	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-03-17", nil, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if d := decode[dayDTO](t, rec); !d.Training {
		t.Errorf("reactivated template does not resolve: %+v", d)
	}

	tests := []struct {
		name   string
		method string
		target string
		body   map[string]any
		want   int
	}{
		{"missing weekday", http.MethodPost, "/api/clubs/dojo-nord/templates", map[string]any{"time_start": "17:00"}, http.StatusBadRequest},
		{"weekday out of range", http.MethodPost, "/api/clubs/dojo-nord/templates", map[string]any{"weekday": 7, "time_start": "17:00"}, http.StatusBadRequest},
		{"end before start", http.MethodPost, "/api/clubs/dojo-nord/templates", map[string]any{"weekday": 1, "time_start": "17:00", "time_end": "16:00"}, http.StatusBadRequest},
		{"foreign template", http.MethodPut, "/api/clubs/dojo-sued/templates?id=7", map[string]any{"weekday": 1, "time_start": "17:00"}, http.StatusForbidden},
		{"missing id", http.MethodDelete, "/api/clubs/dojo-nord/templates", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, do(t, mux, tt.method, tt.target, tt.body, &nordSess), tt.want)
		})
	}
}

func TestHandleCreateTrainer(t *testing.T) {
	mux := newTestServer(t)
	body := map[string]any{
		"name":  "Dora",
		"email": "dora@dojo.test",
		"assignments": []map[string]any{
			{"template_id": 7, "start_date": "2024-03-01"},
			{"template_id": 8, "start_date": "2024-03-01", "end_date": "2024-03-31"},
		},
	}
	rec := do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/trainers", body, &nordSess)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[trainerDTO](t, rec)
	if created.ID == "" || created.ClubID != "c1" || len(created.AssignmentIDs) != 2 {
		t.Fatalf("trainer = %+v", created)
	}

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-03-13", nil, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if d := decode[dayDTO](t, rec); len(d.Slots[0].Entries) != 1 || d.Slots[0].Entries[0].TrainerName != "Dora" {
		t.Errorf("Wednesday = %+v", d)
	}

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/trainers", nil, &nordSess)
	expectStatus(t, rec, http.StatusOK)
	if list := decode[[]trainerDTO](t, rec); len(list) != 3 {
		t.Errorf("trainers = %+v", list)
	}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"email taken ignoring case", map[string]any{"name": "Dora", "email": "DORA@dojo.test", "assignments": []map[string]any{{"template_id": 7, "start_date": "2024-03-01"}}}, http.StatusBadRequest},
		{"no assignments", map[string]any{"name": "Eve", "email": "eve@dojo.test", "assignments": []map[string]any{}}, http.StatusBadRequest},
		{"bad email", map[string]any{"name": "Eve", "email": "eve", "assignments": []map[string]any{{"template_id": 7, "start_date": "2024-03-01"}}}, http.StatusBadRequest},
		{"unknown template", map[string]any{"name": "Eve", "email": "eve@dojo.test", "assignments": []map[string]any{{"template_id": 99, "start_date": "2024-03-01"}}}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, do(t, mux, http.MethodPost, "/api/clubs/dojo-nord/trainers", tt.body, &nordSess), tt.want)
		})
	}
}

// TestHandleAddAssignment verifies an existing trainer can take over another
// weekly training.
func TestHandleAddAssignment(t *testing.T) {
	mux := newTestServer(t)
	target := "/api/clubs/dojo-nord/trainers/" + annaID + "/assignments"
	body := map[string]any{"template_id": 8, "start_date": "2024-03-01", "end_date": "2024-03-31", "notes": "covers for Ben"}

	expectStatus(t, do(t, mux, http.MethodPost, target, body, &annaSess), http.StatusForbidden)
	expectStatus(t, do(t, mux, http.MethodPost, target, body, &suedSess), http.StatusForbidden)

	rec := do(t, mux, http.MethodPost, target, body, &nordSess)
	expectStatus(t, rec, http.StatusCreated)
	if a := decode[assignmentDTO](t, rec); a.ID == 0 || a.TrainerID != annaID || a.TemplateID != 8 || a.EndDate != "2024-03-31" {
		t.Errorf("assignment = %+v", a)
	}

	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-03-13", nil, &annaSess)
	expectStatus(t, rec, http.StatusOK)
	if d := decode[dayDTO](t, rec); len(d.Slots[0].Entries) != 1 || d.Slots[0].Entries[0].TrainerName != "Anna" {
		t.Errorf("Wednesday = %+v", d)
	}
	rec = do(t, mux, http.MethodGet, "/api/clubs/dojo-nord/days/2024-04-03", nil, &annaSess)
	expectStatus(t, rec, http.StatusOK)
	if d := decode[dayDTO](t, rec); len(d.Slots[0].Entries) != 0 {
		t.Errorf("Wednesday after the window = %+v", d)
	}

	tests := []struct {
		name   string
		target string
		body   map[string]any
		want   int
	}{
		{"overlapping", target, map[string]any{"template_id": 8, "start_date": "2024-03-15"}, http.StatusBadRequest},
		{"trainer of another club", "/api/clubs/dojo-nord/trainers/" + caraID + "/assignments", body, http.StatusNotFound},
		{"unknown template", target, map[string]any{"template_id": 99, "start_date": "2024-03-01"}, http.StatusNotFound},
		{"missing start", target, map[string]any{"template_id": 7}, http.StatusBadRequest},
		{"end before start", target, map[string]any{"template_id": 7, "start_date": "2024-03-10", "end_date": "2024-03-01"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, do(t, mux, http.MethodPost, tt.target, tt.body, &nordSess), tt.want)
		})
	}
}

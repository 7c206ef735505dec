package web

import (
	"net/http"
	"time"

	"dojoroster/internal/application/orchestrators"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/trainer"
)

// Club admin handlers: templates, overrides and trainers of one club.

func templateDeps() orchestrators.TemplateDeps {
	return orchestrators.TemplateDeps{TemplateStore: stores.TemplateStore}
}

func overrideDeps() orchestrators.OverrideDeps {
	return orchestrators.OverrideDeps{
		TemplateStore: stores.TemplateStore,
		OverrideStore: stores.OverrideStore,
		EntryStore:    stores.EntryStore,
		Now:           timeNow,
	}
}

// handleListTemplates handles GET /api/clubs/{slug}/templates
func handleListTemplates(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	templates, err := stores.TemplateStore.ListByClub(r.Context(), c.ID, true)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]templateDTO, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateTemplate handles POST /api/clubs/{slug}/templates
func handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	var req templateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	t, err := orchestrators.ExecuteCreateTemplate(r.Context(), orchestrators.TemplateInput{
		ClubID:    c.ID,
		Weekday:   time.Weekday(*req.Weekday),
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
	}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateDTO(t))
}

// handleUpdateTemplate handles PUT /api/clubs/{slug}/templates?id=
func handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	id, err := queryInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req templateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	t, err := orchestrators.ExecuteUpdateTemplate(r.Context(), orchestrators.TemplateInput{
		ClubID:     c.ID,
		TemplateID: id,
		Weekday:    time.Weekday(*req.Weekday),
		TimeStart:  req.TimeStart,
		TimeEnd:    req.TimeEnd,
	}, templateDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateDTO(t))
}

// handleSetTemplateActive serves DELETE /api/clubs/{slug}/templates?id=
// (deactivate) and POST /api/clubs/{slug}/templates/activate?id=.
func handleSetTemplateActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := loadClub(w, r)
		if !ok {
			return
		}
		if _, ok := requireClubAdmin(w, r, c); !ok {
			return
		}
		id, err := queryInt64(r, "id")
		if err != nil {
			writeError(w, err)
			return
		}
		if err := orchestrators.ExecuteSetTemplateActive(r.Context(), c.ID, id, active, templateDeps()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleListOverrides handles GET /api/clubs/{slug}/overrides?month=
func handleListOverrides(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	p, err := schedulePeriod(r)
	if err != nil {
		writeError(w, err)
		return
	}
	overrides, err := stores.OverrideStore.ListByClubRange(r.Context(), c.ID, p.Start, p.End)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]overrideDTO, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, toOverrideDTO(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateOverride handles POST /api/clubs/{slug}/overrides
// PRE: club admin; kind is cancel, extra or event
// POST: 201 with the stored override
func handleCreateOverride(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	sess, ok := requireClubAdmin(w, r, c)
	if !ok {
		return
	}
	var req overrideRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	d, err := period.ParseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	kind, err := override.ParseKind(req.Kind)
	if err != nil {
		writeError(w, err)
		return
	}

	var o override.Override
	if kind == override.KindCancel {
		o, err = orchestrators.ExecuteCancelSlot(r.Context(), orchestrators.CancelSlotInput{
			ClubID:     c.ID,
			TemplateID: req.TemplateID,
			Date:       d,
			Reason:     req.Reason,
			CreatedBy:  actorName(sess),
		}, overrideDeps())
	} else {
		o, err = orchestrators.ExecuteCreateStandalone(r.Context(), orchestrators.StandaloneInput{
			ClubID:    c.ID,
			Kind:      kind,
			Date:      d,
			TimeStart: req.TimeStart,
			TimeEnd:   req.TimeEnd,
			Reason:    req.Reason,
			CreatedBy: actorName(sess),
		}, overrideDeps())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOverrideDTO(o))
}

// handleUpdateOverride handles PUT /api/clubs/{slug}/overrides?id=
func handleUpdateOverride(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	id, err := queryInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req overrideUpdateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	d, err := period.ParseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	edit := override.Edit{Date: d, TimeStart: req.TimeStart, TimeEnd: req.TimeEnd, Reason: req.Reason}
	if req.Kind != "" {
		if edit.Kind, err = override.ParseKind(req.Kind); err != nil {
			writeError(w, err)
			return
		}
	}
	o, err := orchestrators.ExecuteUpdateOverride(r.Context(), orchestrators.UpdateOverrideInput{
		ClubID:     c.ID,
		OverrideID: id,
		Edit:       edit,
	}, overrideDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOverrideDTO(o))
}

// handleDeleteOverride handles DELETE /api/clubs/{slug}/overrides?id=[&only_cancel=true]
// only_cancel=true lifts a cancellation and refuses to delete an extra or event.
func handleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	id, err := queryInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	err = orchestrators.ExecuteDeleteOverride(r.Context(), orchestrators.DeleteOverrideInput{
		ClubID:     c.ID,
		OverrideID: id,
		OnlyCancel: r.URL.Query().Get("only_cancel") == "true",
	}, overrideDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type trainerDTO struct {
	ID            string  `json:"id"`
	ClubID        string  `json:"club_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	AssignmentIDs []int64 `json:"assignment_ids,omitempty"`
}

func toTrainerDTO(t trainer.Trainer) trainerDTO {
	return trainerDTO{ID: t.ID, ClubID: t.ClubID, Name: t.Name, Email: t.Email}
}

// handleListTrainers handles GET /api/clubs/{slug}/trainers
func handleListTrainers(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	if _, ok := requireClubAdmin(w, r, c); !ok {
		return
	}
	trainers, err := stores.TrainerStore.ListByClub(r.Context(), c.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]trainerDTO, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, toTrainerDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateTrainer handles POST /api/clubs/{slug}/trainers
// PRE: club admin; at least one assignment
// POST: 201 with the trainer and the ids of the stored assignments
func handleCreateTrainer(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	sess, ok := requireClubAdmin(w, r, c)
	if !ok {
		return
	}
	var req createTrainerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	input := orchestrators.CreateTrainerInput{
		ClubID:    c.ID,
		Name:      req.Name,
		Email:     req.Email,
		CreatedBy: actorName(sess),
	}
	for _, a := range req.Assignments {
		ai, err := toAssignmentInput(a)
		if err != nil {
			writeError(w, err)
			return
		}
		input.Assignments = append(input.Assignments, ai)
	}

	res, err := orchestrators.ExecuteCreateTrainer(r.Context(), input, orchestrators.CreateTrainerDeps{
		TrainerStore:  stores.TrainerStore,
		TemplateStore: stores.TemplateStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	dto := toTrainerDTO(res.Trainer)
	dto.AssignmentIDs = res.AssignmentIDs
	writeJSON(w, http.StatusCreated, dto)
}

func toAssignmentInput(a assignmentRequest) (orchestrators.AssignmentInput, error) {
	start, err := period.ParseDate(a.StartDate)
	if err != nil {
		return orchestrators.AssignmentInput{}, err
	}
	ai := orchestrators.AssignmentInput{TemplateID: a.TemplateID, StartDate: start, Notes: a.Notes}
	if a.EndDate != "" {
		end, err := period.ParseDate(a.EndDate)
		if err != nil {
			return orchestrators.AssignmentInput{}, err
		}
		ai.EndDate = &end
	}
	return ai, nil
}

func assignmentDeps() orchestrators.AssignmentDeps {
	return orchestrators.AssignmentDeps{
		TrainerStore:    stores.TrainerStore,
		TemplateStore:   stores.TemplateStore,
		EntryStore:      stores.EntryStore,
		AssignmentStore: stores.AssignmentStore,
		Now:             timeNow,
	}
}

// handleAddAssignment handles POST /api/clubs/{slug}/trainers/{id}/assignments
// PRE: club admin; trainer belongs to the club
// POST: 201 with the stored assignment
func handleAddAssignment(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	sess, ok := requireClubAdmin(w, r, c)
	if !ok {
		return
	}
	var req assignmentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	ai, err := toAssignmentInput(req)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := orchestrators.ExecuteAddAssignment(r.Context(), orchestrators.AddAssignmentInput{
		ClubID:     c.ID,
		TrainerID:  r.PathValue("id"),
		Assignment: ai,
		CreatedBy:  actorName(sess),
	}, assignmentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(a))
}

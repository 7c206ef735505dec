package web

import (
	"log/slog"
	"net/http"

	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/application/orchestrators"
	"dojoroster/internal/application/projections"
	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/period"
	"dojoroster/internal/domain/slot"
)

// maxScheduleDays bounds a ?start=&end= schedule query.
const maxScheduleDays = 93

var (
	errRangeTooLong = apperr.Validation("schedule range must not exceed 93 days")
	errSignUpOthers = apperr.Forbidden("trainers can only sign up themselves")
)

func scheduleDeps() projections.ScheduleDeps {
	return projections.ScheduleDeps{
		TemplateStore:   stores.TemplateStore,
		OverrideStore:   stores.OverrideStore,
		EntryStore:      stores.EntryStore,
		AssignmentStore: stores.AssignmentStore,
	}
}

// handleListClubs handles GET /api/clubs
func handleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := stores.ClubStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]clubDTO, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, toClubDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// schedulePeriod reads ?month=YYYY-MM or ?start=&end=, defaulting to the
// current month.
func schedulePeriod(r *http.Request) (period.Period, error) {
	q := r.URL.Query()
	if m := q.Get("month"); m != "" {
		return period.ParseMonth(m)
	}
	if q.Get("start") == "" && q.Get("end") == "" {
		now := timeNow().UTC()
		return period.Month(now.Year(), now.Month()), nil
	}
	start, err := period.ParseDate(q.Get("start"))
	if err != nil {
		return period.Period{}, err
	}
	end, err := period.ParseDate(q.Get("end"))
	if err != nil {
		return period.Period{}, err
	}
	p, err := period.New(start, end)
	if err != nil {
		return period.Period{}, err
	}
	if len(p.Days()) > maxScheduleDays {
		return period.Period{}, errRangeTooLong
	}
	return p, nil
}

// handleClubSchedule handles GET /api/clubs/{slug}/schedule
// PRE: none (public)
// POST: returns every day of the period with slots, rosters and warnings
func handleClubSchedule(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	p, err := schedulePeriod(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := projections.QueryGetClubSchedule(r.Context(), projections.GetClubScheduleQuery{ClubID: c.ID, Period: p}, scheduleDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(res))
}

// handleDayDetail handles GET /api/clubs/{slug}/days/{date}
// PRE: authenticated
func handleDayDetail(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	d, err := period.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := projections.QueryGetDayDetail(r.Context(), projections.GetDayDetailQuery{ClubID: c.ID, Date: d}, scheduleDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dayDTO{Date: period.FormatDate(res.Date), Training: res.Training, Slots: toSlotRosterDTOs(res.Slots)})
}

// handleSignUp handles POST /api/clubs/{slug}/entries
// PRE: authenticated; trainers sign up themselves, club admins may name a trainer
// POST: 201 with the stored entry; 409 when the trainer is already bound
func handleSignUp(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	var req signUpRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	d, err := period.ParseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	kind, _ := slot.ParseKeyKind(req.SlotKind)

	trainerID := sess.Subject
	if sess.Role != middleware.RoleTrainer {
		if req.TrainerID == "" {
			writeJSONError(w, http.StatusBadRequest, "trainer_id is required", nil)
			return
		}
		if _, ok := requireClubAdmin(w, r, c); !ok {
			return
		}
		trainerID = req.TrainerID
	} else if req.TrainerID != "" && req.TrainerID != sess.Subject {
		writeError(w, errSignUpOthers)
		return
	}

	e, err := orchestrators.ExecuteSignUp(r.Context(), orchestrators.SignUpInput{
		ClubID:    c.ID,
		TrainerID: trainerID,
		Date:      d,
		Slot:      slot.Key{Kind: kind, ID: req.SlotID},
		Remark:    req.Remark,
	}, orchestrators.SignUpDeps{
		TemplateStore:   stores.TemplateStore,
		OverrideStore:   stores.OverrideStore,
		EntryStore:      stores.EntryStore,
		AssignmentStore: stores.AssignmentStore,
		TrainerStore:    stores.TrainerStore,
		Now:             timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

// handleUnregister handles DELETE /api/clubs/{slug}/entries?id= and
// DELETE /api/clubs/{slug}/entries?assignment_id=&date=
// PRE: authenticated
// POST: 204; a scheduled occurrence is skipped, a real entry is deleted
func handleUnregister(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	ref, err := entryRefFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input := orchestrators.UnregisterInput{ClubID: c.ID, Ref: ref, Reason: r.URL.Query().Get("reason")}
	isAdmin, err := canManageClub(r, c)
	if err != nil {
		internalError(w, err)
		return
	}
	if isAdmin {
		input.ActorIsAdmin = true
	} else if sess.Role == middleware.RoleTrainer {
		input.ActorTrainerID = sess.Subject
	} else {
		slog.Warn("auth_denied", "path", r.URL.Path, "subject", sess.Subject, "role", sess.Role, "club", c.ID)
		writeJSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	err = orchestrators.ExecuteUnregister(r.Context(), input, orchestrators.UnregisterDeps{
		TemplateStore:   stores.TemplateStore,
		OverrideStore:   stores.OverrideStore,
		EntryStore:      stores.EntryStore,
		AssignmentStore: stores.AssignmentStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRestoreOccurrence handles DELETE /api/clubs/{slug}/entries/skip?assignment_id=&date=
// PRE: authenticated; club admin or the assigned trainer
// POST: 204; the scheduled entry binds again
func handleRestoreOccurrence(w http.ResponseWriter, r *http.Request) {
	c, ok := loadClub(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	assignmentID, err := queryInt64(r, "assignment_id")
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := period.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	input := orchestrators.RestoreOccurrenceInput{ClubID: c.ID, AssignmentID: assignmentID, Date: d}
	isAdmin, err := canManageClub(r, c)
	if err != nil {
		internalError(w, err)
		return
	}
	if isAdmin {
		input.ActorIsAdmin = true
	} else if sess.Role == middleware.RoleTrainer {
		input.ActorTrainerID = sess.Subject
	} else {
		slog.Warn("auth_denied", "path", r.URL.Path, "subject", sess.Subject, "role", sess.Role, "club", c.ID)
		writeJSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}

	if err := orchestrators.ExecuteRestoreOccurrence(r.Context(), input, assignmentDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryRefFromQuery(r *http.Request) (entry.Ref, error) {
	q := r.URL.Query()
	if q.Get("id") != "" {
		id, err := queryInt64(r, "id")
		if err != nil {
			return nil, err
		}
		return entry.RealRef{ID: id}, nil
	}
	assignmentID, err := queryInt64(r, "assignment_id")
	if err != nil {
		return nil, err
	}
	d, err := period.ParseDate(q.Get("date"))
	if err != nil {
		return nil, err
	}
	return entry.ScheduledRef{AssignmentID: assignmentID, Date: d}, nil
}

// handleMyEntries handles GET /api/me/entries?month=
// PRE: trainer session
// POST: upcoming and past bindings of the signed-in trainer
func handleMyEntries(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	res, err := projections.QueryGetTrainerProfile(r.Context(), projections.GetTrainerProfileQuery{
		TrainerID: sess.Subject,
		Month:     r.URL.Query().Get("month"),
		Today:     timeNow(),
	}, projections.GetTrainerProfileDeps{
		ScheduleDeps: scheduleDeps(),
		TrainerStore: stores.TrainerStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(res))
}

package web

import (
	"net/http"
	"strconv"
	"time"

	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/application/listutil"
	"dojoroster/internal/application/orchestrators"
	"dojoroster/internal/application/projections"
	"dojoroster/internal/domain/identity"
)

// mergedUserSortColumns are accepted for ?sort= on the users list; only the
// default name order is implemented.
var mergedUserSortColumns = []string{"name"}

func adminDeps() orchestrators.AdminDeps {
	return orchestrators.AdminDeps{
		ClubStore:    stores.ClubStore,
		TrainerStore: stores.TrainerStore,
		AdminStore:   stores.AdminStore,
		Now:          timeNow,
	}
}

type mergedUserDTO struct {
	Key        string `json:"key"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name"`
	ClubID     string `json:"club_id,omitempty"`
	TrainerID  string `json:"trainer_id,omitempty"`
	AdminID    int64  `json:"admin_id,omitempty"`
	Trainer    bool   `json:"trainer"`
	Admin      bool   `json:"admin"`
	SuperAdmin bool   `json:"super_admin"`
	Username   string `json:"username,omitempty"`
}

func toMergedUserDTO(u identity.MergedUser) mergedUserDTO {
	return mergedUserDTO{
		Key:        u.Key,
		Email:      u.Email,
		Name:       u.DisplayName,
		ClubID:     u.ClubID,
		TrainerID:  u.TrainerID,
		AdminID:    u.AdminID,
		Trainer:    u.IsTrainer,
		Admin:      u.IsAdmin,
		SuperAdmin: u.IsSuperAdmin,
		Username:   u.Username,
	}
}

type usersPageDTO struct {
	Users []mergedUserDTO   `json:"users"`
	Page  listutil.PageInfo `json:"page"`
}

// handleListUsers handles GET /api/admin/users?q=&role=&page=&per_page=
// PRE: super admin
// POST: one row per person, trainers and admins merged by email
func handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	params := listutil.ParseListParams(r.URL.Query(), mergedUserSortColumns, projections.MergedUserFilterKeys)
	res, err := projections.QueryGetMergedUsers(r.Context(), projections.GetMergedUsersQuery{Params: params}, projections.GetMergedUsersDeps{
		TrainerStore: stores.TrainerStore,
		AdminStore:   stores.AdminStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	out := usersPageDTO{Users: make([]mergedUserDTO, 0, len(res.Users)), Page: res.Page}
	for _, u := range res.Users {
		out.Users = append(out.Users, toMergedUserDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePromoteTrainer handles POST /api/admin/users/promote
func handlePromoteTrainer(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	var req promoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	a, err := orchestrators.ExecutePromoteTrainer(r.Context(), orchestrators.PromoteTrainerInput{
		TrainerID:  req.TrainerID,
		SuperAdmin: req.SuperAdmin,
	}, adminDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdminDTO(a))
}

// handleCreateAdmin handles POST /api/admin/admins
// PRE: super admin
// POST: 201 with a standalone admin; 409 when the username is taken
func handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	var req createAdminRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	a, err := orchestrators.ExecuteCreateAdmin(r.Context(), orchestrators.CreateAdminInput{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		SuperAdmin: req.SuperAdmin,
		ClubID:     req.ClubID,
	}, adminDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdminDTO(a))
}

// handleSaveClub handles PUT /api/admin/clubs and PUT /api/admin/clubs?id=
// PRE: super admin
// POST: 200 with the stored club; a new club gets a fresh id
func handleSaveClub(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	var req clubRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	c, err := orchestrators.ExecuteSaveClub(r.Context(), orchestrators.SaveClubInput{
		ID:         r.URL.Query().Get("id"),
		Name:       req.Name,
		City:       req.City,
		Slug:       req.Slug,
		Address:    req.Address,
		WebsiteURL: req.WebsiteURL,
	}, orchestrators.ClubDeps{ClubStore: stores.ClubStore, GenerateID: generateID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClubDTO(c))
}

// handleRevokeAdmin handles POST /api/admin/users/revoke
func handleRevokeAdmin(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSuperAdmin(w, r)
	if !ok {
		return
	}
	var req revokeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	actorID, _ := strconv.ParseInt(sess.Subject, 10, 64)
	err := orchestrators.ExecuteRevokeAdmin(r.Context(), orchestrators.RevokeAdminInput{
		AdminID:      req.AdminID,
		ActorAdminID: actorID,
	}, adminDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteTrainer handles DELETE /api/admin/trainers?id=
// Entries and assignments of the trainer are removed with it.
func handleDeleteTrainer(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	if err := orchestrators.ExecuteDeleteTrainer(r.Context(), id, adminDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePerf handles GET /api/admin/perf?minutes=
// PRE: super admin
// POST: request and query timing percentiles for the window
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSuperAdmin(w, r); !ok {
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 10))
}

// handleCreateSession handles POST /api/session. It exchanges a bearer token
// for an HttpOnly session cookie.
func handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	sess, err := tokens.Verify(req.Token)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid session token", nil)
		return
	}
	ttl := time.Until(sess.ExpiresAt)
	middleware.SetSessionCookie(w, req.Token, ttl, secureCookies)
	writeJSON(w, http.StatusOK, toSessionDTO(sess))
}

// handleDeleteSession handles DELETE /api/session.
func handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, toSessionDTO(sess))
}

func toSessionDTO(s middleware.Session) sessionDTO {
	return sessionDTO{
		Subject:    s.Subject,
		Email:      s.Email,
		Name:       s.Name,
		Role:       s.Role,
		ClubID:     s.ClubID,
		SuperAdmin: s.SuperAdmin,
		ExpiresAt:  s.ExpiresAt,
	}
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

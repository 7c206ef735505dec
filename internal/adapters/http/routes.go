package web

import (
	"net/http"

	"dojoroster/internal/adapters/http/middleware"
)

// registerRoutes maps the JSON API onto mux. Club admin and super admin
// checks happen in the handlers once the club is known.
func registerRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	trainerOnly := func(h http.HandlerFunc) http.Handler { return middleware.RequireRole(middleware.RoleTrainer)(h) }
	adminOnly := func(h http.HandlerFunc) http.Handler { return middleware.RequireRole(middleware.RoleAdmin)(h) }

	mux.HandleFunc("GET /healthz", handleHealthz)

	// Sessions
	mux.HandleFunc("POST /api/session", handleCreateSession)
	mux.HandleFunc("DELETE /api/session", handleDeleteSession)
	mux.Handle("GET /api/me", authed(handleMe))
	mux.Handle("GET /api/me/entries", trainerOnly(handleMyEntries))

	// Schedule and sign-ups
	mux.HandleFunc("GET /api/clubs", handleListClubs)
	mux.HandleFunc("GET /api/clubs/{slug}/schedule", handleClubSchedule)
	mux.Handle("GET /api/clubs/{slug}/days/{date}", authed(handleDayDetail))
	mux.Handle("POST /api/clubs/{slug}/entries", authed(handleSignUp))
	mux.Handle("DELETE /api/clubs/{slug}/entries", authed(handleUnregister))
	mux.Handle("DELETE /api/clubs/{slug}/entries/skip", authed(handleRestoreOccurrence))

	// Club administration
	mux.Handle("GET /api/clubs/{slug}/templates", adminOnly(handleListTemplates))
	mux.Handle("POST /api/clubs/{slug}/templates", adminOnly(handleCreateTemplate))
	mux.Handle("PUT /api/clubs/{slug}/templates", adminOnly(handleUpdateTemplate))
	mux.Handle("DELETE /api/clubs/{slug}/templates", adminOnly(handleSetTemplateActive(false)))
	mux.Handle("POST /api/clubs/{slug}/templates/activate", adminOnly(handleSetTemplateActive(true)))
	mux.Handle("GET /api/clubs/{slug}/overrides", adminOnly(handleListOverrides))
	mux.Handle("POST /api/clubs/{slug}/overrides", adminOnly(handleCreateOverride))
	mux.Handle("PUT /api/clubs/{slug}/overrides", adminOnly(handleUpdateOverride))
	mux.Handle("DELETE /api/clubs/{slug}/overrides", adminOnly(handleDeleteOverride))
	mux.Handle("GET /api/clubs/{slug}/trainers", adminOnly(handleListTrainers))
	mux.Handle("POST /api/clubs/{slug}/trainers", adminOnly(handleCreateTrainer))
	mux.Handle("POST /api/clubs/{slug}/trainers/{id}/assignments", adminOnly(handleAddAssignment))

	// Identity administration
	mux.Handle("GET /api/admin/users", adminOnly(handleListUsers))
	mux.Handle("PUT /api/admin/clubs", adminOnly(handleSaveClub))
	mux.Handle("POST /api/admin/admins", adminOnly(handleCreateAdmin))
	mux.Handle("POST /api/admin/users/promote", adminOnly(handlePromoteTrainer))
	mux.Handle("POST /api/admin/users/revoke", adminOnly(handleRevokeAdmin))
	mux.Handle("DELETE /api/admin/trainers", adminOnly(handleDeleteTrainer))
	mux.Handle("GET /api/admin/perf", adminOnly(handlePerf))
}

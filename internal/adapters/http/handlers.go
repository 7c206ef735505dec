package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/apperr"
	"dojoroster/internal/domain/club"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// validate checks request DTOs. A Validate instance caches struct metadata
// and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// renderReason converts an override reason from markdown to HTML.
func renderReason(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(reason), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err)
		return ""
	}
	return buf.String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSONError(w, http.StatusInternalServerError, "internal server error", nil)
}

// writeError maps domain error kinds to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, err.Error(), nil)
	case apperr.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, err.Error(), nil)
	case apperr.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error(), nil)
	case apperr.IsDuplicate(err):
		writeJSONError(w, http.StatusConflict, err.Error(), nil)
	default:
		internalError(w, err)
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorResponse{Error: msg, Fields: fields})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeRequest decodes and validates a JSON body, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := strictDecode(r, v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			writeJSONError(w, http.StatusBadRequest, "invalid request", nil)
			return false
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		writeJSONError(w, http.StatusBadRequest, "validation failed", fields)
		return false
	}
	return true
}

// queryInt64 parses a positive integer query parameter.
func queryInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// loadClub resolves the {slug} path value, writing a 404 when unknown.
func loadClub(w http.ResponseWriter, r *http.Request) (club.Club, bool) {
	c, err := stores.ClubStore.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return club.Club{}, false
	}
	return c, true
}

// sessionAdmin loads the stored admin behind an admin session. Rights are
// decided on this record, not on the token claims.
// POST: ok is false for non-admin sessions and for admins no longer stored
func sessionAdmin(ctx context.Context, sess middleware.Session) (admin.Admin, bool, error) {
	if sess.Role != middleware.RoleAdmin {
		return admin.Admin{}, false, nil
	}
	id, err := strconv.ParseInt(sess.Subject, 10, 64)
	if err != nil {
		return admin.Admin{}, false, nil
	}
	a, err := stores.AdminStore.GetByID(ctx, id)
	if apperr.IsNotFound(err) {
		return admin.Admin{}, false, nil
	}
	if err != nil {
		return admin.Admin{}, false, err
	}
	return a, true, nil
}

// canManageClub reports whether the request's session is a stored admin of c.
func canManageClub(r *http.Request, c club.Club) (bool, error) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return false, nil
	}
	a, ok, err := sessionAdmin(r.Context(), sess)
	if err != nil || !ok {
		return false, err
	}
	return a.CanManageClub(c.ID), nil
}

// requireClubAdmin writes 401/403 unless the session may manage c.
func requireClubAdmin(w http.ResponseWriter, r *http.Request, c club.Club) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "not authenticated", nil)
		return middleware.Session{}, false
	}
	allowed, err := canManageClub(r, c)
	if err != nil {
		internalError(w, err)
		return middleware.Session{}, false
	}
	if !allowed {
		slog.Warn("auth_denied", "path", r.URL.Path, "subject", sess.Subject, "role", sess.Role, "club", c.ID)
		writeJSONError(w, http.StatusForbidden, "forbidden", nil)
		return middleware.Session{}, false
	}
	return sess, true
}

// requireSuperAdmin writes 401/403 unless the session belongs to a stored
// super admin.
func requireSuperAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "not authenticated", nil)
		return middleware.Session{}, false
	}
	a, ok, err := sessionAdmin(r.Context(), sess)
	if err != nil {
		internalError(w, err)
		return middleware.Session{}, false
	}
	if !ok || !a.SuperAdmin {
		slog.Warn("auth_denied", "path", r.URL.Path, "subject", sess.Subject, "role", sess.Role)
		writeJSONError(w, http.StatusForbidden, "forbidden", nil)
		return middleware.Session{}, false
	}
	return sess, true
}

// actorName is recorded as created_by on admin mutations.
func actorName(sess middleware.Session) string {
	if sess.Name != "" {
		return sess.Name
	}
	return sess.Subject
}

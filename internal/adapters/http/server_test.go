package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/adapters/http/perf"
	adminStore "dojoroster/internal/adapters/storage/admin"
	assignmentStore "dojoroster/internal/adapters/storage/assignment"
	clubStore "dojoroster/internal/adapters/storage/club"
	entryStore "dojoroster/internal/adapters/storage/entry"
	overrideStore "dojoroster/internal/adapters/storage/override"
	"dojoroster/internal/adapters/storage/storagetest"
	trainerStore "dojoroster/internal/adapters/storage/trainer"
	weeklyStore "dojoroster/internal/adapters/storage/weekly"
)

const (
	annaID = "3f0c1a52-7b1e-4d0a-9c4e-2b6f7a8d9e01"
	benID  = "3f0c1a52-7b1e-4d0a-9c4e-2b6f7a8d9e02"
	caraID = "3f0c1a52-7b1e-4d0a-9c4e-2b6f7a8d9e03"
)

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// Sessions used across handler tests.
var (
	annaSess = middleware.Session{Subject: annaID, Name: "Anna", Email: "anna@dojo.test", Role: middleware.RoleTrainer, ClubID: "c1"}
	benSess  = middleware.Session{Subject: benID, Name: "Ben", Email: "ben@dojo.test", Role: middleware.RoleTrainer, ClubID: "c1"}
	rootSess = middleware.Session{Subject: "1", Name: "root", Role: middleware.RoleAdmin, SuperAdmin: true}
	nordSess = middleware.Session{Subject: "2", Name: "nord", Email: "nord@dojo.test", Role: middleware.RoleAdmin, ClubID: "c1"}
	suedSess = middleware.Session{Subject: "3", Name: "sued", Role: middleware.RoleAdmin, ClubID: "c2"}
)

// newTestServer seeds club c1 (dojo-nord) with a Monday template 7 and a
// Wednesday template 8, trainers Anna and Ben in c1 and Cara in c2, and an
// assignment 1 of Ben to template 7 from March 1st 2024. Admin 1 is the
// super admin, admin 2 manages c1 and admin 3 manages c2.
func newTestServer(t *testing.T) *http.ServeMux {
	t.Helper()
	db := storagetest.Open(t)
	storagetest.Exec(t, db,
		"INSERT INTO training_template (id, club_id, weekday, time_start, time_end) VALUES (7, 'c1', 1, '18:00', '19:30')",
		"INSERT INTO training_template (id, club_id, weekday, time_start) VALUES (8, 'c1', 3, '18:00')",
		"INSERT INTO trainer (id, club_id, name, email, created_at) VALUES ('"+annaID+"', 'c1', 'Anna', 'anna@dojo.test', '2024-01-01T00:00:00Z')",
		"INSERT INTO trainer (id, club_id, name, email, created_at) VALUES ('"+benID+"', 'c1', 'Ben', 'ben@dojo.test', '2024-01-01T00:00:00Z')",
		"INSERT INTO trainer (id, club_id, name, email, created_at) VALUES ('"+caraID+"', 'c2', 'Cara', 'cara@dojo.test', '2024-01-01T00:00:00Z')",
		"INSERT INTO assignment (id, trainer_id, template_id, start_date, created_at) VALUES (1, '"+benID+"', 7, '2024-03-01', '2024-01-01T00:00:00Z')",
		"INSERT INTO admin (id, username, full_name, is_super_admin, created_at) VALUES (1, 'root', 'Root', 1, '2024-01-01T00:00:00Z')",
		"INSERT INTO admin (id, username, email, full_name, club_id, created_at) VALUES (2, 'nord', 'nord@dojo.test', 'Nora', 'c1', '2024-01-01T00:00:00Z')",
		"INSERT INTO admin (id, username, full_name, club_id, created_at) VALUES (3, 'sued', 'Sven', 'c2', '2024-01-01T00:00:00Z')",
	)

	prevStores, prevNow, prevCollector := stores, timeNow, perfCollector
	t.Cleanup(func() { stores, timeNow, perfCollector = prevStores, prevNow, prevCollector })

	stores = &Stores{
		ClubStore:       clubStore.NewSQLiteStore(db),
		TemplateStore:   weeklyStore.NewSQLiteStore(db),
		OverrideStore:   overrideStore.NewSQLiteStore(db),
		EntryStore:      entryStore.NewSQLiteStore(db),
		AssignmentStore: assignmentStore.NewSQLiteStore(db),
		TrainerStore:    trainerStore.NewSQLiteStore(db),
		AdminStore:      adminStore.NewSQLiteStore(db),
	}
	timeNow = func() time.Time { return testNow }
	perfCollector = perf.NewCollector(100)

	mux := http.NewServeMux()
	registerRoutes(mux)
	return mux
}

// do serves one request through mux with sess in context when non-nil.
func do(t *testing.T, mux http.Handler, method, target string, body any, sess *middleware.Session) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req = req.WithContext(middleware.ContextWithSession(req.Context(), *sess))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

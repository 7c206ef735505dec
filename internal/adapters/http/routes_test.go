package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/adapters/http/perf"
	"dojoroster/internal/config"
)

// newTestStack serves the seeded test stores through the full middleware chain.
func newTestStack(t *testing.T) (http.Handler, *middleware.Tokens) {
	t.Helper()
	newTestServer(t)
	s := stores
	prevTokens, prevSecure := tokens, secureCookies
	t.Cleanup(func() { tokens, secureCookies = prevTokens, prevSecure })

	cfg := config.Config{
		Env:         "development",
		RateLimit:   100,
		RateWindow:  time.Second,
		SlowRequest: time.Second,
		SessionTTL:  time.Hour,
	}
	tk := middleware.NewTokens([]byte("0123456789abcdef0123456789abcdef"), cfg.SessionTTL)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := NewMux(ctx, cfg, s, tk, perf.NewCollector(100))
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	timeNow = time.Now
	return h, tk
}

func TestNewMux_HealthzAndTiming(t *testing.T) {
	h, _ := newTestStack(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	expectStatus(t, rec, http.StatusOK)
	for _, name := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rec.Header().Get(name) == "" {
			t.Errorf("missing header %s", name)
		}
	}
	if got := perfCollector.TotalRecorded(); got != 0 {
		t.Errorf("health checks recorded = %d, want 0", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clubs", nil))
	expectStatus(t, rec, http.StatusOK)
	if got := perfCollector.TotalRecorded(); got != 1 {
		t.Errorf("recorded requests = %d, want 1", got)
	}

	for _, slug := range []string{"dojo-nord", "dojo-sued"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clubs/"+slug+"/schedule?month=2024-03", nil))
		expectStatus(t, rec, http.StatusOK)
	}
	snap := perfCollector.Snapshot(timeNow().Add(-time.Hour), 10)
	counts := map[string]int{}
	for _, p := range snap.SlowestPaths {
		counts[p.Path] = p.Count
	}
	if counts["GET /api/clubs/{slug}/schedule"] != 2 || counts["GET /api/clubs"] != 1 {
		t.Errorf("route rows = %v", counts)
	}
}

func TestNewMux_BearerSession(t *testing.T) {
	h, tk := newTestStack(t)
	token, _, err := tk.Issue(annaSess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"tampered token", "Bearer " + token + "x", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			expectStatus(t, rec, tt.want)
		})
	}
}

// TestNewMux_SessionCookie exchanges a token for a cookie and uses it.
func TestNewMux_SessionCookie(t *testing.T) {
	h, tk := newTestStack(t)
	token, _, err := tk.Issue(benSess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"token":"`+token+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	if s := decode[sessionDTO](t, rec); s.Subject != benID {
		t.Errorf("me = %+v", s)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"token":"garbage"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
}

// TestNewMux_FormPostNeedsCSRFToken verifies cookie-authenticated form
// posts are rejected without a CSRF token.
func TestNewMux_FormPostNeedsCSRFToken(t *testing.T) {
	h, tk := newTestStack(t)
	token, _, err := tk.Issue(annaSess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/clubs/dojo-nord/entries", strings.NewReader("date=2024-03-11"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "dojo_session", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusForbidden)
}

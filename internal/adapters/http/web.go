package web

import (
	"context"
	"net/http"
	"time"

	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/adapters/http/perf"
	adminStore "dojoroster/internal/adapters/storage/admin"
	assignmentStore "dojoroster/internal/adapters/storage/assignment"
	clubStore "dojoroster/internal/adapters/storage/club"
	entryStore "dojoroster/internal/adapters/storage/entry"
	overrideStore "dojoroster/internal/adapters/storage/override"
	trainerStore "dojoroster/internal/adapters/storage/trainer"
	weeklyStore "dojoroster/internal/adapters/storage/weekly"
	"dojoroster/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	ClubStore       clubStore.Store
	TemplateStore   weeklyStore.Store
	OverrideStore   overrideStore.Store
	EntryStore      entryStore.Store
	AssignmentStore assignmentStore.Store
	TrainerStore    trainerStore.Store
	AdminStore      adminStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session token issuer (set by NewMux)
var tokens *middleware.Tokens

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// secureCookies marks session cookies Secure in production.
var secureCookies bool

// NewMux wires HTTP handlers and the middleware chain.
// The rate limiter sweeps idle visitors until ctx is done.
// PRE: cfg has been validated; s, t and collector are non-nil
// POST: returns a handler serving the JSON API
func NewMux(ctx context.Context, cfg config.Config, s *Stores, t *middleware.Tokens, collector *perf.Collector) (http.Handler, error) {
	stores = s
	tokens = t
	perfCollector = collector
	secureCookies = cfg.IsProduction()

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, cfg.RateWindow)

	// Applied inner to outer: CSRF -> Auth -> RateLimit -> Timing -> SecurityHeaders -> Recover
	return middleware.Chain(mux,
		middleware.CSRF(csrfKey, secureCookies),
		middleware.Auth(t),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, cfg.SlowRequest, mux),
		middleware.SecurityHeaders,
		middleware.Recover,
	), nil
}

// timeNow is a variable for testability.
var timeNow = time.Now

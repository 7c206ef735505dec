package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	web "dojoroster/internal/adapters/http"
	"dojoroster/internal/adapters/http/middleware"
	"dojoroster/internal/adapters/http/perf"
	"dojoroster/internal/adapters/storage"
	adminStore "dojoroster/internal/adapters/storage/admin"
	assignmentStore "dojoroster/internal/adapters/storage/assignment"
	clubStore "dojoroster/internal/adapters/storage/club"
	entryStore "dojoroster/internal/adapters/storage/entry"
	overrideStore "dojoroster/internal/adapters/storage/override"
	trainerStore "dojoroster/internal/adapters/storage/trainer"
	weeklyStore "dojoroster/internal/adapters/storage/weekly"
	"dojoroster/internal/application/orchestrators"
	"dojoroster/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// WAL mode, foreign keys for cascades, busy timeout for concurrent writers
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)

	stores := &web.Stores{
		ClubStore:       clubStore.NewSQLiteStore(timedDB),
		TemplateStore:   weeklyStore.NewSQLiteStore(timedDB),
		OverrideStore:   overrideStore.NewSQLiteStore(timedDB),
		EntryStore:      entryStore.NewSQLiteStore(timedDB),
		AssignmentStore: assignmentStore.NewSQLiteStore(timedDB),
		TrainerStore:    trainerStore.NewSQLiteStore(timedDB),
		AdminStore:      adminStore.NewSQLiteStore(timedDB),
	}

	seeded, err := orchestrators.ExecuteBootstrapAdmin(ctx, cfg.BootstrapUser, orchestrators.AdminDeps{
		TrainerStore: stores.TrainerStore,
		AdminStore:   stores.AdminStore,
		Now:          time.Now,
	})
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if seeded {
		log.Printf("Created super admin %q; mint a token with cmd/sessiontoken -admin %s", cfg.BootstrapUser, cfg.BootstrapUser)
	}

	sessionKey, err := cfg.SessionKey()
	if err != nil {
		log.Fatalf("session key: %v", err)
	}
	if cfg.SessionSecret == "" {
		log.Println("DOJO_SESSION_SECRET is not set; sessions will not survive a restart")
	}
	tokens := middleware.NewTokens(sessionKey, cfg.SessionTTL)

	handler, err := web.NewMux(ctx, cfg, stores, tokens, collector)
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Dojoroster %s starting on %s (env=%s, schema=%d)", version, cfg.Addr, cfg.Env, storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

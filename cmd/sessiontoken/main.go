// Command sessiontoken mints a session token for an existing trainer or
// admin. It reads the same DOJO_* environment as the server, so the token
// verifies against a server sharing DOJO_SESSION_SECRET.
//
//	sessiontoken -trainer anna@dojo.test
//	sessiontoken -admin admin
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dojoroster/internal/adapters/http/middleware"
	adminStore "dojoroster/internal/adapters/storage/admin"
	trainerStore "dojoroster/internal/adapters/storage/trainer"
	"dojoroster/internal/config"
	adminDomain "dojoroster/internal/domain/admin"
	trainerDomain "dojoroster/internal/domain/trainer"
)

func main() {
	trainerRef := flag.String("trainer", "", "trainer id or email")
	adminRef := flag.String("admin", "", "admin username or email")
	ttl := flag.Duration("ttl", 0, "token lifetime (default DOJO_SESSION_TTL)")
	flag.Parse()

	if (*trainerRef == "") == (*adminRef == "") {
		fmt.Fprintln(os.Stderr, "usage: sessiontoken -trainer <id|email> | -admin <username|email> [-ttl 24h]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.SessionSecret == "" {
		log.Fatal("DOJO_SESSION_SECRET must be set; a random key would not match the server's")
	}
	if *ttl > 0 {
		cfg.SessionTTL = *ttl
	}

	db, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	var sess middleware.Session
	if *trainerRef != "" {
		t, err := lookupTrainer(ctx, trainerStore.NewSQLiteStore(db), *trainerRef)
		if err != nil {
			log.Fatalf("trainer %q: %v", *trainerRef, err)
		}
		sess = middleware.Session{Subject: t.ID, Email: t.Email, Name: t.Name, Role: middleware.RoleTrainer, ClubID: t.ClubID}
	} else {
		a, err := lookupAdmin(ctx, adminStore.NewSQLiteStore(db), *adminRef)
		if err != nil {
			log.Fatalf("admin %q: %v", *adminRef, err)
		}
		sess = middleware.Session{
			Subject:    strconv.FormatInt(a.ID, 10),
			Email:      a.Email,
			Name:       a.DisplayName(),
			Role:       middleware.RoleAdmin,
			ClubID:     a.ClubID,
			SuperAdmin: a.SuperAdmin,
		}
	}

	key, err := cfg.SessionKey()
	if err != nil {
		log.Fatalf("session key: %v", err)
	}
	token, issued, err := middleware.NewTokens(key, cfg.SessionTTL).Issue(sess)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "%s %s valid until %s\n", issued.Role, issued.Name, issued.ExpiresAt.Format(time.RFC3339))
	fmt.Println(token)
}

func lookupTrainer(ctx context.Context, store trainerStore.Store, ref string) (trainerDomain.Trainer, error) {
	if strings.Contains(ref, "@") {
		return store.GetByEmail(ctx, ref)
	}
	return store.GetByID(ctx, ref)
}

func lookupAdmin(ctx context.Context, store adminStore.Store, ref string) (adminDomain.Admin, error) {
	if strings.Contains(ref, "@") {
		return store.GetByEmail(ctx, ref)
	}
	return store.GetByUsername(ctx, ref)
}

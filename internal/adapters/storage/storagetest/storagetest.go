// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"dojoroster/internal/adapters/storage"
)

// Open returns a migrated in-memory database seeded with clubs "c1" (slug
// "dojo-nord") and "c2" (slug "dojo-sued").
// A single connection keeps every query on the same in-memory database.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	Exec(t, db,
		"INSERT INTO club (id, name, city, slug) VALUES ('c1', 'Dojo Nord', 'Hamburg', 'dojo-nord')",
		"INSERT INTO club (id, name, city, slug) VALUES ('c2', 'Dojo Süd', 'München', 'dojo-sued')",
	)
	return db
}

// Exec runs seed statements, failing the test on the first error.
func Exec(t testing.TB, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("exec %q: %v", q, err)
		}
	}
}

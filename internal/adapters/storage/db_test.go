package storage

import (
	"database/sql"
	"reflect"
	"sort"
	"testing"

	_ "modernc.org/sqlite"

	"dojoroster/internal/domain/apperr"
)

// openTestDB creates an in-memory SQLite database for testing.
// A single connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"admin",
	"assignment",
	"assignment_exception",
	"club",
	"schema_version",
	"trainer",
	"training_entry",
	"training_override",
	"training_template",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}
	if got := getTableNames(t, db); !reflect.DeepEqual(got, expectedTables) {
		t.Errorf("tables = %v, want %v", got, expectedTables)
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice is a no-op.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	v1, _ := SchemaVersion(db)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}
	v2, _ := SchemaVersion(db)
	if v1 != v2 {
		t.Errorf("version changed from %d to %d", v1, v2)
	}
}

// TestMigrateDB_VersionProgression verifies SchemaVersion reports 0 before
// migration and the latest version after.
func TestMigrateDB_VersionProgression(t *testing.T) {
	db := openTestDB(t)
	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("pre-migration version = %d, want 0", v)
	}
	if LatestSchemaVersion() < 3 {
		t.Errorf("LatestSchemaVersion = %d, want >= 3", LatestSchemaVersion())
	}
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	if v, _ = SchemaVersion(db); v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_DataSurvival verifies existing rows survive a re-run.
func TestMigrateDB_DataSurvival(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO club (id, name, slug) VALUES ('c1', 'Dojo', 'dojo')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM club WHERE id = 'c1'").Scan(&name); err != nil || name != "Dojo" {
		t.Errorf("club lost after migration: %q, %v", name, err)
	}
}

// TestMigrateDB_EntryConstraints verifies the entry shape and uniqueness rules
// enforced by the schema.
func TestMigrateDB_EntryConstraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	seed := []string{
		"INSERT INTO club (id, name, slug) VALUES ('c1', 'Dojo', 'dojo')",
		"INSERT INTO trainer (id, club_id, name, email, created_at) VALUES ('t1', 'c1', 'Aiko', 'aiko@example.com', '2024-01-01T00:00:00Z')",
		"INSERT INTO training_template (id, club_id, weekday, time_start) VALUES (7, 'c1', 1, '18:00')",
		"INSERT INTO training_override (id, club_id, override_date, action, time_start, created_at) VALUES (7, 'c1', '2024-03-04', 'extra', '10:00', '2024-01-01T00:00:00Z')",
	}
	for _, q := range seed {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("seed %q: %v", q, err)
		}
	}

	insert := "INSERT INTO training_entry (club_id, template_id, override_id, entry_date, trainer_id, trainer_name, created_at) VALUES ('c1', ?, ?, '2024-03-04', 't1', 'Aiko', '2024-01-01T00:00:00Z')"
	if _, err := db.Exec(insert, 7, nil); err != nil {
		t.Fatalf("template entry: %v", err)
	}
	if _, err := db.Exec(insert, nil, 7); err != nil {
		t.Fatalf("override entry with the same numeric id must be allowed: %v", err)
	}

	_, err := db.Exec(insert, 7, nil)
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation for duplicate template entry, got %v", err)
	}
	if !apperr.IsDuplicate(MapWriteError(err, "dup")) {
		t.Error("MapWriteError should classify the violation as duplicate")
	}
	if _, err := db.Exec(insert, nil, 7); !IsUniqueViolation(err) {
		t.Errorf("expected unique violation for duplicate override entry, got %v", err)
	}
	if _, err := db.Exec(insert, 7, 7); err == nil {
		t.Error("entry with both template and override must be rejected")
	}
	if _, err := db.Exec(insert, nil, nil); err == nil {
		t.Error("entry with neither template nor override must be rejected")
	}
}

// TestMapNoRows verifies not-found classification.
func TestMapNoRows(t *testing.T) {
	if !apperr.IsNotFound(MapNoRows(sql.ErrNoRows, "missing")) {
		t.Error("sql.ErrNoRows should map to not found")
	}
	if MapNoRows(nil, "missing") != nil {
		t.Error("nil should stay nil")
	}
	if MapWriteError(nil, "dup") != nil {
		t.Error("nil should stay nil")
	}
}

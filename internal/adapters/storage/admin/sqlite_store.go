package admin

import (
	"context"
	"database/sql"
	"time"

	"dojoroster/internal/adapters/storage"
	domain "dojoroster/internal/domain/admin"
)

const selectColumns = "SELECT id, username, email, full_name, is_super_admin, club_id, created_at FROM admin"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AdminStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row scanner) (domain.Admin, error) {
	var (
		a             domain.Admin
		email, clubID sql.NullString
		created       string
	)
	if err := row.Scan(&a.ID, &a.Username, &email, &a.FullName, &a.SuperAdmin, &clubID, &created); err != nil {
		return domain.Admin{}, err
	}
	a.Email = email.String
	a.ClubID = clubID.String
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return a, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetByID retrieves an Admin by its ID.
// PRE: id > 0
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err != nil {
		return domain.Admin{}, storage.MapNoRows(err, "admin not found")
	}
	return a, nil
}

// GetByUsername retrieves an Admin by its login name.
// PRE: username is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, selectColumns+" WHERE username = ?", username))
	if err != nil {
		return domain.Admin{}, storage.MapNoRows(err, "admin not found")
	}
	return a, nil
}

// GetByEmail retrieves the first Admin with the given email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ? COLLATE NOCASE ORDER BY id LIMIT 1", email))
	if err != nil {
		return domain.Admin{}, storage.MapNoRows(err, "admin not found")
	}
	return a, nil
}

// Create inserts an Admin and returns its ID.
// PRE: entity has been validated
// POST: Entity is persisted; a taken username is a duplicate
func (s *SQLiteStore) Create(ctx context.Context, a domain.Admin) (int64, error) {
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO admin (username, email, full_name, is_super_admin, club_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		a.Username, nullable(a.Email), a.FullName, a.SuperAdmin, nullable(a.ClubID), created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, storage.MapWriteError(err, "admin username already taken")
	}
	return res.LastInsertId()
}

// Delete removes an Admin.
// PRE: id > 0
// POST: Returns a not-found error when the admin was already gone
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM admin WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.ExpectAffected(res, "admin not found")
}

// List retrieves all Admins ordered by id.
// PRE: none
// POST: Returns every admin
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// CountSuperAdmins returns the number of super admins.
func (s *SQLiteStore) CountSuperAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin WHERE is_super_admin = 1").Scan(&n)
	return n, err
}

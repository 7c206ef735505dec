package weekly

import (
	"context"
	"database/sql"
	"time"

	"dojoroster/internal/adapters/storage"
	domain "dojoroster/internal/domain/weekly"
)

const selectColumns = "SELECT id, club_id, weekday, time_start, time_end, active FROM training_template"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TemplateStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (domain.Template, error) {
	var (
		t       domain.Template
		weekday int
		end     sql.NullString
	)
	if err := row.Scan(&t.ID, &t.ClubID, &weekday, &t.TimeStart, &end, &t.Active); err != nil {
		return domain.Template{}, err
	}
	t.Weekday = time.Weekday(weekday)
	t.TimeEnd = end.String
	return t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetByID retrieves a Template by its ID, active or not.
// PRE: id > 0
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err != nil {
		return domain.Template{}, storage.MapNoRows(err, "training template not found")
	}
	return t, nil
}

// Create inserts a Template and returns its ID.
// PRE: entity has been validated
// POST: Entity is persisted with a fresh ID
func (s *SQLiteStore) Create(ctx context.Context, t domain.Template) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO training_template (club_id, weekday, time_start, time_end, active) VALUES (?, ?, ?, ?, ?)",
		t.ClubID, int(t.Weekday), t.TimeStart, nullable(t.TimeEnd), t.Active,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites weekday, times and the active flag of a Template.
// PRE: entity has been validated
// POST: Returns a not-found error when no row matched
func (s *SQLiteStore) Update(ctx context.Context, t domain.Template) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE training_template SET weekday = ?, time_start = ?, time_end = ?, active = ? WHERE id = ? AND club_id = ?",
		int(t.Weekday), t.TimeStart, nullable(t.TimeEnd), t.Active, t.ID, t.ClubID,
	)
	if err != nil {
		return err
	}
	return storage.ExpectAffected(res, "training template not found")
}

// ListByClub retrieves a club's Templates ordered by weekday then start.
// PRE: clubID is non-empty
// POST: Returns active templates, plus inactive ones when includeInactive
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string, includeInactive bool) ([]domain.Template, error) {
	query := selectColumns + " WHERE club_id = ?"
	if !includeInactive {
		query += " AND active = 1"
	}
	rows, err := s.db.QueryContext(ctx, query+" ORDER BY weekday, time_start, id", clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

package entry

import (
	"context"
	"database/sql"
	"time"

	"dojoroster/internal/adapters/storage"
	domain "dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/period"
)

const selectColumns = "SELECT id, club_id, template_id, override_id, entry_date, trainer_id, trainer_name, remark, created_at FROM training_entry"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new EntryStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		e                      domain.Entry
		id                     int64
		templateID, overrideID sql.NullInt64
		date, created          string
	)
	if err := row.Scan(&id, &e.ClubID, &templateID, &overrideID, &date, &e.TrainerID, &e.TrainerName, &e.Remark, &created); err != nil {
		return domain.Entry{}, err
	}
	key, err := domain.KeyFromColumns(nullInt(templateID), nullInt(overrideID))
	if err != nil {
		return domain.Entry{}, err
	}
	e.Ref = domain.RealRef{ID: id}
	e.Slot = key
	if e.Date, err = period.ParseDate(date); err != nil {
		return domain.Entry{}, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return e, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// GetByID retrieves an Entry by its ID.
// PRE: id > 0
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err != nil {
		return domain.Entry{}, storage.MapNoRows(err, "entry not found")
	}
	return e, nil
}

// Create inserts a real Entry and returns its ID.
// PRE: entity has been validated and is not scheduled
// POST: Entity is persisted; a second sign-up of the same trainer for the
// same slot and date fails with domain.ErrDuplicateEntry
func (s *SQLiteStore) Create(ctx context.Context, e domain.Entry) (int64, error) {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO training_entry (club_id, template_id, override_id, entry_date, trainer_id, trainer_name, remark, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ClubID, nullableID(e.TemplateID()), nullableID(e.OverrideID()), period.FormatDate(e.Date),
		e.TrainerID, e.TrainerName, e.Remark, created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return 0, domain.ErrDuplicateEntry
		}
		return 0, err
	}
	return res.LastInsertId()
}

// Delete removes an Entry row.
// PRE: id > 0
// POST: Returns a not-found error when the row was already gone
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM training_entry WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.ExpectAffected(res, "entry not found")
}

// ListByClubRange retrieves a club's Entries with dates in [start, end].
// PRE: clubID is non-empty
// POST: Returns entries ordered by date then creation
func (s *SQLiteStore) ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]domain.Entry, error) {
	return s.queryEntries(ctx,
		selectColumns+" WHERE club_id = ? AND entry_date BETWEEN ? AND ? ORDER BY entry_date, created_at, id",
		clubID, period.FormatDate(start), period.FormatDate(end),
	)
}

// ListByTrainerRange retrieves a trainer's Entries with dates in [start, end].
// PRE: trainerID is non-empty
// POST: Returns entries ordered by date then creation
func (s *SQLiteStore) ListByTrainerRange(ctx context.Context, trainerID string, start, end time.Time) ([]domain.Entry, error) {
	return s.queryEntries(ctx,
		selectColumns+" WHERE trainer_id = ? AND entry_date BETWEEN ? AND ? ORDER BY entry_date, created_at, id",
		trainerID, period.FormatDate(start), period.FormatDate(end),
	)
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

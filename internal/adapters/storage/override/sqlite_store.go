package override

import (
	"context"
	"database/sql"
	"time"

	"dojoroster/internal/adapters/storage"
	domain "dojoroster/internal/domain/override"
	"dojoroster/internal/domain/period"
)

const selectColumns = "SELECT id, club_id, template_id, override_date, action, time_start, time_end, reason, requires_roster, created_by, created_at FROM training_override"

// msgAlreadyCancelled reports a second targeted cancellation.
const msgAlreadyCancelled = "training is already cancelled on this date"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new OverrideStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOverride(row scanner) (domain.Override, error) {
	var (
		o              domain.Override
		templateID     sql.NullInt64
		date, created  string
		action         string
		start, end     sql.NullString
		requiresRoster bool
	)
	if err := row.Scan(&o.ID, &o.ClubID, &templateID, &date, &action, &start, &end, &o.Reason, &requiresRoster, &o.CreatedBy, &created); err != nil {
		return domain.Override{}, err
	}
	kind, err := domain.KindFromAction(action, requiresRoster)
	if err != nil {
		return domain.Override{}, err
	}
	o.Kind = kind
	if templateID.Valid {
		id := templateID.Int64
		o.TemplateID = &id
	}
	if o.Date, err = period.ParseDate(date); err != nil {
		return domain.Override{}, err
	}
	o.CreatedAt, _ = time.Parse(time.RFC3339, created)
	o.TimeStart = start.String
	o.TimeEnd = end.String
	return o, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// GetByID retrieves an Override by its ID.
// PRE: id > 0
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Override, error) {
	o, err := scanOverride(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err != nil {
		return domain.Override{}, storage.MapNoRows(err, "override not found")
	}
	return o, nil
}

// Create inserts an Override and returns its ID.
// PRE: entity has been validated
// POST: Entity is persisted; a second targeted cancel for the same
// template and date is rejected as a duplicate
func (s *SQLiteStore) Create(ctx context.Context, o domain.Override) (int64, error) {
	action, requiresRoster := o.Action()
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO training_override (club_id, template_id, override_date, action, time_start, time_end, reason, requires_roster, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		o.ClubID, nullableID(o.TemplateID), period.FormatDate(o.Date), action,
		nullable(o.TimeStart), nullable(o.TimeEnd), o.Reason, requiresRoster, o.CreatedBy,
		created.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, storage.MapWriteError(err, msgAlreadyCancelled)
	}
	return res.LastInsertId()
}

// Update rewrites the date, times and reason of an Override. The action
// columns are never touched.
// PRE: entity has been validated
// POST: Returns a not-found error when no row matched
func (s *SQLiteStore) Update(ctx context.Context, o domain.Override) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE training_override SET override_date = ?, time_start = ?, time_end = ?, reason = ? WHERE id = ? AND club_id = ?",
		period.FormatDate(o.Date), nullable(o.TimeStart), nullable(o.TimeEnd), o.Reason, o.ID, o.ClubID,
	)
	if err != nil {
		return storage.MapWriteError(err, msgAlreadyCancelled)
	}
	return storage.ExpectAffected(res, "override not found")
}

// Delete removes an Override. Entries bound to an extra slot go with it.
// PRE: id > 0
// POST: Returns a not-found error when the override was already gone
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM training_override WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.ExpectAffected(res, "override not found")
}

// ListByClubRange retrieves a club's Overrides with dates in [start, end].
// PRE: clubID is non-empty
// POST: Returns overrides ordered by date then id
func (s *SQLiteStore) ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]domain.Override, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+" WHERE club_id = ? AND override_date BETWEEN ? AND ? ORDER BY override_date, id",
		clubID, period.FormatDate(start), period.FormatDate(end),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, o)
	}
	return results, rows.Err()
}

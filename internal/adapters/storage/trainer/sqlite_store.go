package trainer

import (
	"context"
	"time"

	"dojoroster/internal/adapters/storage"
	assignmentstore "dojoroster/internal/adapters/storage/assignment"
	"dojoroster/internal/domain/assignment"
	domain "dojoroster/internal/domain/trainer"
)

const selectColumns = "SELECT id, club_id, name, email, created_at FROM trainer"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TrainerStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrainer(row scanner) (domain.Trainer, error) {
	var (
		t       domain.Trainer
		created string
	)
	if err := row.Scan(&t.ID, &t.ClubID, &t.Name, &t.Email, &created); err != nil {
		return domain.Trainer{}, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return t, nil
}

// GetByID retrieves a Trainer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Trainer, error) {
	t, err := scanTrainer(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err != nil {
		return domain.Trainer{}, storage.MapNoRows(err, "trainer not found")
	}
	return t, nil
}

// GetByEmail retrieves a Trainer by email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Trainer, error) {
	t, err := scanTrainer(s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ? COLLATE NOCASE", email))
	if err != nil {
		return domain.Trainer{}, storage.MapNoRows(err, "trainer not found")
	}
	return t, nil
}

// Create inserts a Trainer together with its assignments in one
// transaction and returns the assignment IDs in input order.
// PRE: trainer and assignments have been validated; assignments carry the
// trainer's ID
// POST: All rows are persisted or none; a taken email yields
// domain.ErrEmailTaken
func (s *SQLiteStore) Create(ctx context.Context, t domain.Trainer, assignments []assignment.Assignment) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO trainer (id, club_id, name, email, created_at) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.ClubID, t.Name, t.Email, created.UTC().Format(time.RFC3339),
	); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		query, args := assignmentstore.InsertArgs(a)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, tx.Commit()
}

// Delete removes a Trainer with its entries and assignments.
// PRE: id is non-empty
// POST: Returns a not-found error when the trainer was already gone
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trainer WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.ExpectAffected(res, "trainer not found")
}

// List retrieves all Trainers ordered by name.
// PRE: none
// POST: Returns every trainer
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Trainer, error) {
	return s.queryTrainers(ctx, selectColumns+" ORDER BY name, id")
}

// ListByClub retrieves a club's Trainers ordered by name.
// PRE: clubID is non-empty
// POST: Returns the club's trainers
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string) ([]domain.Trainer, error) {
	return s.queryTrainers(ctx, selectColumns+" WHERE club_id = ? ORDER BY name, id", clubID)
}

func (s *SQLiteStore) queryTrainers(ctx context.Context, query string, args ...any) ([]domain.Trainer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

package assignment

import (
	"context"
	"database/sql"
	"time"

	"dojoroster/internal/adapters/storage"
	domain "dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/period"
)

// Assignments carry the club of their template and the trainer's name.
const selectColumns = `SELECT a.id, t.club_id, a.trainer_id, tr.name, a.template_id, a.start_date, a.end_date, a.active, a.notes, a.created_by, a.created_at
	FROM assignment a
	JOIN training_template t ON t.id = a.template_id
	JOIN trainer tr ON tr.id = a.trainer_id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AssignmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row scanner) (domain.Assignment, error) {
	var (
		a              domain.Assignment
		start, created string
		end            sql.NullString
	)
	if err := row.Scan(&a.ID, &a.ClubID, &a.TrainerID, &a.TrainerName, &a.TemplateID, &start, &end, &a.Active, &a.Notes, &a.CreatedBy, &created); err != nil {
		return domain.Assignment{}, err
	}
	var err error
	if a.StartDate, err = period.ParseDate(start); err != nil {
		return domain.Assignment{}, err
	}
	if end.Valid {
		d, err := period.ParseDate(end.String)
		if err != nil {
			return domain.Assignment{}, err
		}
		a.EndDate = &d
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return a, nil
}

// InsertArgs returns the statement and arguments that insert a.
// Shared with stores that create assignments inside their own transaction.
func InsertArgs(a domain.Assignment) (string, []any) {
	var end any
	if a.EndDate != nil {
		end = period.FormatDate(*a.EndDate)
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return "INSERT INTO assignment (trainer_id, template_id, start_date, end_date, active, notes, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		[]any{a.TrainerID, a.TemplateID, period.FormatDate(a.StartDate), end, a.Active, a.Notes, a.CreatedBy, created.UTC().Format(time.RFC3339)}
}

// GetByID retrieves an Assignment by its ID.
// PRE: id > 0
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Assignment, error) {
	a, err := scanAssignment(s.db.QueryRowContext(ctx, selectColumns+" WHERE a.id = ?", id))
	if err != nil {
		return domain.Assignment{}, storage.MapNoRows(err, "assignment not found")
	}
	return a, nil
}

// Create inserts an Assignment and returns its ID.
// PRE: entity has been validated
// POST: Entity is persisted with a fresh ID
func (s *SQLiteStore) Create(ctx context.Context, a domain.Assignment) (int64, error) {
	query, args := InsertArgs(a)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByClub retrieves the Assignments on a club's templates.
// PRE: clubID is non-empty
// POST: Returns assignments ordered by id
func (s *SQLiteStore) ListByClub(ctx context.Context, clubID string) ([]domain.Assignment, error) {
	return s.queryAssignments(ctx, selectColumns+" WHERE t.club_id = ? ORDER BY a.id", clubID)
}

// ListByTrainer retrieves a trainer's Assignments.
// PRE: trainerID is non-empty
// POST: Returns assignments ordered by id
func (s *SQLiteStore) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Assignment, error) {
	return s.queryAssignments(ctx, selectColumns+" WHERE a.trainer_id = ? ORDER BY a.id", trainerID)
}

func (s *SQLiteStore) queryAssignments(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// SaveException records that an assignment does not apply on a date.
// PRE: entity has been validated
// POST: Returns a duplicate error when the date is already excepted
func (s *SQLiteStore) SaveException(ctx context.Context, e domain.Exception) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO assignment_exception (assignment_id, exception_date, reason) VALUES (?, ?, ?)",
		e.AssignmentID, period.FormatDate(e.Date), e.Reason,
	)
	return storage.MapWriteError(err, "trainer is already unregistered for this date")
}

// DeleteException restores an assignment occurrence.
// PRE: assignmentID > 0
// POST: Returns a not-found error when no exception existed
func (s *SQLiteStore) DeleteException(ctx context.Context, assignmentID int64, date time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM assignment_exception WHERE assignment_id = ? AND exception_date = ?",
		assignmentID, period.FormatDate(date),
	)
	if err != nil {
		return err
	}
	return storage.ExpectAffected(res, "assignment exception not found")
}

// ListExceptions retrieves exceptions on a club's assignments in [start, end].
// PRE: clubID is non-empty
// POST: Returns exceptions ordered by date
func (s *SQLiteStore) ListExceptions(ctx context.Context, clubID string, start, end time.Time) ([]domain.Exception, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT e.assignment_id, e.exception_date, e.reason
		FROM assignment_exception e
		JOIN assignment a ON a.id = e.assignment_id
		JOIN training_template t ON t.id = a.template_id
		WHERE t.club_id = ? AND e.exception_date BETWEEN ? AND ?
		ORDER BY e.exception_date, e.assignment_id`,
		clubID, period.FormatDate(start), period.FormatDate(end),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Exception
	for rows.Next() {
		var (
			e    domain.Exception
			date string
		)
		if err := rows.Scan(&e.AssignmentID, &date, &e.Reason); err != nil {
			return nil, err
		}
		if e.Date, err = period.ParseDate(date); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

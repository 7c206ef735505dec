package assignment

import (
	"context"
	"time"

	domain "dojoroster/internal/domain/assignment"
)

// Store persists Assignment and Exception state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Assignment, error)
	Create(ctx context.Context, value domain.Assignment) (int64, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Assignment, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Assignment, error)
	SaveException(ctx context.Context, value domain.Exception) error
	DeleteException(ctx context.Context, assignmentID int64, date time.Time) error
	ListExceptions(ctx context.Context, clubID string, start, end time.Time) ([]domain.Exception, error)
}

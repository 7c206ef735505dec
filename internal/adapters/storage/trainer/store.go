package trainer

import (
	"context"

	"dojoroster/internal/domain/assignment"
	domain "dojoroster/internal/domain/trainer"
)

// Store persists Trainer state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Trainer, error)
	GetByEmail(ctx context.Context, email string) (domain.Trainer, error)
	Create(ctx context.Context, value domain.Trainer, assignments []assignment.Assignment) ([]int64, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Trainer, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Trainer, error)
}

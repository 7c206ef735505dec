package entry

import (
	"context"
	"time"

	domain "dojoroster/internal/domain/entry"
)

// Store persists real Entry rows. Scheduled entries are never stored.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Entry, error)
	Create(ctx context.Context, value domain.Entry) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]domain.Entry, error)
	ListByTrainerRange(ctx context.Context, trainerID string, start, end time.Time) ([]domain.Entry, error)
}

package override

import (
	"context"
	"time"

	domain "dojoroster/internal/domain/override"
)

// Store persists Override state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Override, error)
	Create(ctx context.Context, value domain.Override) (int64, error)
	Update(ctx context.Context, value domain.Override) error
	Delete(ctx context.Context, id int64) error
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]domain.Override, error)
}

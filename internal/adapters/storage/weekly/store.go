package weekly

import (
	"context"

	domain "dojoroster/internal/domain/weekly"
)

// Store persists weekly Template state. Templates are never hard-deleted.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Template, error)
	Create(ctx context.Context, value domain.Template) (int64, error)
	Update(ctx context.Context, value domain.Template) error
	ListByClub(ctx context.Context, clubID string, includeInactive bool) ([]domain.Template, error)
}

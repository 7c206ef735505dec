package admin

import (
	"context"

	domain "dojoroster/internal/domain/admin"
)

// Store persists Admin state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (domain.Admin, error)
	Create(ctx context.Context, value domain.Admin) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Admin, error)
	CountSuperAdmins(ctx context.Context) (int, error)
}

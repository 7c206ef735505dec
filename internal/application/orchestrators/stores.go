package orchestrators

import (
	"context"
	"time"

	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/assignment"
	"dojoroster/internal/domain/club"
	"dojoroster/internal/domain/entry"
	"dojoroster/internal/domain/override"
	"dojoroster/internal/domain/trainer"
	"dojoroster/internal/domain/weekly"
)

// TemplateStore is the weekly template persistence used by orchestrators.
type TemplateStore interface {
	GetByID(ctx context.Context, id int64) (weekly.Template, error)
	Create(ctx context.Context, t weekly.Template) (int64, error)
	Update(ctx context.Context, t weekly.Template) error
	ListByClub(ctx context.Context, clubID string, includeInactive bool) ([]weekly.Template, error)
}

// TemplateLister lists a club's templates.
type TemplateLister interface {
	ListByClub(ctx context.Context, clubID string, includeInactive bool) ([]weekly.Template, error)
}

// OverrideStore is the override persistence used by orchestrators.
type OverrideStore interface {
	GetByID(ctx context.Context, id int64) (override.Override, error)
	Create(ctx context.Context, o override.Override) (int64, error)
	Update(ctx context.Context, o override.Override) error
	Delete(ctx context.Context, id int64) error
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]override.Override, error)
}

// OverrideLister lists a club's overrides in a date range.
type OverrideLister interface {
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]override.Override, error)
}

// EntryStore is the real entry persistence used by orchestrators.
type EntryStore interface {
	GetByID(ctx context.Context, id int64) (entry.Entry, error)
	Create(ctx context.Context, e entry.Entry) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]entry.Entry, error)
	ListByTrainerRange(ctx context.Context, trainerID string, start, end time.Time) ([]entry.Entry, error)
}

// EntryLister lists a club's stored entries in a date range.
type EntryLister interface {
	ListByClubRange(ctx context.Context, clubID string, start, end time.Time) ([]entry.Entry, error)
}

// AssignmentStore is the assignment persistence used by orchestrators.
type AssignmentStore interface {
	GetByID(ctx context.Context, id int64) (assignment.Assignment, error)
	Create(ctx context.Context, a assignment.Assignment) (int64, error)
	ListByClub(ctx context.Context, clubID string) ([]assignment.Assignment, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]assignment.Assignment, error)
	SaveException(ctx context.Context, e assignment.Exception) error
	DeleteException(ctx context.Context, assignmentID int64, date time.Time) error
	ListExceptions(ctx context.Context, clubID string, start, end time.Time) ([]assignment.Exception, error)
}

// TrainerStore is the trainer persistence used by orchestrators.
type TrainerStore interface {
	GetByID(ctx context.Context, id string) (trainer.Trainer, error)
	GetByEmail(ctx context.Context, email string) (trainer.Trainer, error)
	Create(ctx context.Context, t trainer.Trainer, assignments []assignment.Assignment) ([]int64, error)
	Delete(ctx context.Context, id string) error
}

// ClubStore resolves clubs by id.
type ClubStore interface {
	GetByID(ctx context.Context, id string) (club.Club, error)
}

// AdminStore is the admin persistence used by orchestrators.
type AdminStore interface {
	GetByID(ctx context.Context, id int64) (admin.Admin, error)
	GetByUsername(ctx context.Context, username string) (admin.Admin, error)
	GetByEmail(ctx context.Context, email string) (admin.Admin, error)
	Create(ctx context.Context, a admin.Admin) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]admin.Admin, error)
	CountSuperAdmins(ctx context.Context) (int, error)
}

package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/apperr"
)

// PromoteTrainerInput carries input for the orchestrator.
type PromoteTrainerInput struct {
	TrainerID  string
	SuperAdmin bool
}

// AdminDeps holds dependencies for admin management.
type AdminDeps struct {
	ClubStore    ClubStore
	TrainerStore TrainerStore
	AdminStore   AdminStore
	Now          func() time.Time
}

// ExecutePromoteTrainer creates an admin sharing the trainer's email, so the
// merged user list shows one person with both roles.
// PRE: Trainer exists and no admin uses their email yet
// POST: Admin stored; a club admin is bound to the trainer's club
func ExecutePromoteTrainer(ctx context.Context, input PromoteTrainerInput, deps AdminDeps) (admin.Admin, error) {
	t, err := deps.TrainerStore.GetByID(ctx, input.TrainerID)
	if err != nil {
		return admin.Admin{}, err
	}
	if _, err := deps.AdminStore.GetByEmail(ctx, t.Email); err == nil {
		return admin.Admin{}, admin.ErrAlreadyAdmin
	} else if !apperr.IsNotFound(err) {
		return admin.Admin{}, err
	}

	a := admin.Admin{
		Username:   t.Email,
		Email:      t.Email,
		FullName:   t.Name,
		SuperAdmin: input.SuperAdmin,
		CreatedAt:  deps.Now(),
	}
	if !input.SuperAdmin {
		a.ClubID = t.ClubID
	}
	if err := a.Validate(); err != nil {
		return admin.Admin{}, err
	}
	id, err := deps.AdminStore.Create(ctx, a)
	if err != nil {
		return admin.Admin{}, err
	}
	a.ID = id
	slog.Info("user_event", "event", "trainer_promoted", "trainer_id", t.ID, "admin_id", id, "super_admin", a.SuperAdmin)
	return a, nil
}

// CreateAdminInput carries input for the orchestrator.
type CreateAdminInput struct {
	Username   string
	Email      string
	FullName   string
	SuperAdmin bool
	ClubID     string
}

// ExecuteCreateAdmin creates a standalone admin. Without an email the admin
// never merges with a trainer in the user list.
// PRE: Username unused; email, when set, unused by other admins; ClubID names a club unless SuperAdmin
// POST: Admin stored; a super admin is bound to no club
func ExecuteCreateAdmin(ctx context.Context, input CreateAdminInput, deps AdminDeps) (admin.Admin, error) {
	a := admin.Admin{
		Username:   input.Username,
		Email:      input.Email,
		FullName:   strings.TrimSpace(input.FullName),
		SuperAdmin: input.SuperAdmin,
		CreatedAt:  deps.Now(),
	}
	if !input.SuperAdmin {
		a.ClubID = strings.TrimSpace(input.ClubID)
	}
	if err := a.Validate(); err != nil {
		return admin.Admin{}, err
	}
	if a.ClubID != "" {
		if _, err := deps.ClubStore.GetByID(ctx, a.ClubID); err != nil {
			return admin.Admin{}, err
		}
	}
	if _, err := deps.AdminStore.GetByUsername(ctx, a.Username); err == nil {
		return admin.Admin{}, admin.ErrUsernameTaken
	} else if !apperr.IsNotFound(err) {
		return admin.Admin{}, err
	}
	if a.Email != "" {
		if _, err := deps.AdminStore.GetByEmail(ctx, a.Email); err == nil {
			return admin.Admin{}, admin.ErrEmailTaken
		} else if !apperr.IsNotFound(err) {
			return admin.Admin{}, err
		}
	}

	id, err := deps.AdminStore.Create(ctx, a)
	if err != nil {
		return admin.Admin{}, err
	}
	a.ID = id
	slog.Info("user_event", "event", "admin_created", "admin_id", id, "club_id", a.ClubID, "super_admin", a.SuperAdmin)
	return a, nil
}

// RevokeAdminInput carries input for the orchestrator.
type RevokeAdminInput struct {
	AdminID      int64
	ActorAdminID int64
}

// ExecuteRevokeAdmin deletes an admin record. The trainer record of the
// same person, if any, is kept.
// PRE: AdminID is not the actor and not the last super admin
// POST: Admin removed
func ExecuteRevokeAdmin(ctx context.Context, input RevokeAdminInput, deps AdminDeps) error {
	if input.AdminID == input.ActorAdminID {
		return admin.ErrCannotRevokeSelf
	}
	a, err := deps.AdminStore.GetByID(ctx, input.AdminID)
	if err != nil {
		return err
	}
	if a.SuperAdmin {
		n, err := deps.AdminStore.CountSuperAdmins(ctx)
		if err != nil {
			return err
		}
		if n <= 1 {
			return admin.ErrLastSuperAdmin
		}
	}
	if err := deps.AdminStore.Delete(ctx, a.ID); err != nil {
		return err
	}
	slog.Info("user_event", "event", "admin_revoked", "admin_id", a.ID, "actor_admin_id", input.ActorAdminID)
	return nil
}

// ExecuteDeleteTrainer removes a trainer with their entries, assignments and
// exceptions. An admin record sharing the email is kept.
// PRE: Trainer exists
// POST: Trainer removed; a second delete returns NotFound
func ExecuteDeleteTrainer(ctx context.Context, trainerID string, deps AdminDeps) error {
	if err := deps.TrainerStore.Delete(ctx, trainerID); err != nil {
		return err
	}
	slog.Info("user_event", "event", "trainer_deleted", "trainer_id", trainerID)
	return nil
}

// ExecuteBootstrapAdmin creates a super admin if no admin exists yet.
// PRE: Database is migrated
// POST: Admin created only when the admin table was empty
func ExecuteBootstrapAdmin(ctx context.Context, username string, deps AdminDeps) (bool, error) {
	existing, err := deps.AdminStore.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	a := admin.Admin{Username: username, SuperAdmin: true, CreatedAt: deps.Now()}
	if err := a.Validate(); err != nil {
		return false, err
	}
	id, err := deps.AdminStore.Create(ctx, a)
	if err != nil {
		return false, err
	}
	slog.Info("user_event", "event", "admin_seeded", "admin_id", id, "username", username)
	return true, nil
}

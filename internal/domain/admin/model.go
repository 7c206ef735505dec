package admin

import (
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
)

// Domain errors
var (
	ErrEmptyUsername    = apperr.Validation("admin username cannot be empty")
	ErrInvalidEmail     = apperr.Validation("admin email must be valid")
	ErrClubRequired     = apperr.Validation("a club admin must be bound to a club")
	ErrAlreadyAdmin     = apperr.Validation("trainer is already an admin")
	ErrEmailTaken       = apperr.Validation("an admin with this email already exists")
	ErrUsernameTaken    = apperr.Duplicate("admin username already taken")
	ErrLastSuperAdmin   = apperr.Validation("cannot revoke the last super admin")
	ErrCannotRevokeSelf = apperr.Validation("cannot revoke your own admin rights")
)

// Admin may manage the templates, overrides and trainers of a club.
// A super admin manages every club and the user list.
type Admin struct {
	ID         int64
	Username   string
	Email      string // optional
	FullName   string
	SuperAdmin bool
	ClubID     string // empty for super admins
	CreatedAt  time.Time
}

// Validate checks if the Admin has valid data.
// PRE: Admin struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Admin) Validate() error {
	a.Username = strings.TrimSpace(a.Username)
	a.Email = strings.TrimSpace(a.Email)
	if a.Username == "" {
		return ErrEmptyUsername
	}
	if a.Email != "" && !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if !a.SuperAdmin && strings.TrimSpace(a.ClubID) == "" {
		return ErrClubRequired
	}
	return nil
}

// CanManageClub reports whether the admin may mutate clubID's schedule.
// INVARIANT: Admin fields are not mutated
func (a Admin) CanManageClub(clubID string) bool {
	return a.SuperAdmin || (a.ClubID != "" && a.ClubID == clubID)
}

// DisplayName returns the full name, falling back to the username.
func (a Admin) DisplayName() string {
	if n := strings.TrimSpace(a.FullName); n != "" {
		return n
	}
	return a.Username
}

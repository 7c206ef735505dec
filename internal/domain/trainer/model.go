package trainer

import (
	"strings"
	"time"

	"dojoroster/internal/domain/apperr"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// Domain errors
var (
	ErrEmptyName     = apperr.Validation("trainer name cannot be empty")
	ErrNameTooLong   = apperr.Validation("trainer name cannot exceed 100 characters")
	ErrInvalidEmail  = apperr.Validation("trainer email must be valid")
	ErrEmptyClubID   = apperr.Validation("trainer club cannot be empty")
	ErrEmailTaken    = apperr.Validation("email already registered")
	ErrNoAssignments = apperr.Validation("at least one assignment is required")
)

// Trainer is a person who signs up for trainings of one club.
type Trainer struct {
	ID        string
	ClubID    string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (t *Trainer) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	if t.Name == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(t.Email, "@") || len(t.Email) > MaxEmailLength {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(t.ClubID) == "" {
		return ErrEmptyClubID
	}
	return nil
}

package orchestrators

import (
	"context"
	"log/slog"

	"dojoroster/internal/domain/club"
)

// ClubWriter stores clubs.
type ClubWriter interface {
	Save(ctx context.Context, c club.Club) error
}

// SaveClubInput carries input for the orchestrator. An empty ID creates a club.
type SaveClubInput struct {
	ID         string
	Name       string
	City       string
	Slug       string
	Address    string
	WebsiteURL string
}

// ClubDeps holds dependencies for club management.
type ClubDeps struct {
	ClubStore  ClubWriter
	GenerateID func() string
}

// ExecuteSaveClub creates or updates a club.
// PRE: Name and a URL-safe Slug are set
// POST: Club stored; a slug used by another club is a duplicate
func ExecuteSaveClub(ctx context.Context, input SaveClubInput, deps ClubDeps) (club.Club, error) {
	c := club.Club{
		ID:         input.ID,
		Name:       input.Name,
		City:       input.City,
		Slug:       input.Slug,
		Address:    input.Address,
		WebsiteURL: input.WebsiteURL,
	}
	if err := c.Validate(); err != nil {
		return club.Club{}, err
	}
	created := c.ID == ""
	if created {
		c.ID = deps.GenerateID()
	}
	if err := deps.ClubStore.Save(ctx, c); err != nil {
		return club.Club{}, err
	}
	slog.Info("club_event", "event", "club_saved", "club_id", c.ID, "slug", c.Slug, "created", created)
	return c, nil
}

package club

import (
	"strings"

	"dojoroster/internal/domain/apperr"
)

// Domain errors
var (
	ErrEmptyName   = apperr.Validation("club name cannot be empty")
	ErrEmptySlug   = apperr.Validation("club slug cannot be empty")
	ErrInvalidSlug = apperr.Validation("club slug may only contain a-z, 0-9 and dashes")
)

// Club is a dojo. Its ID is the partition key for every other record.
type Club struct {
	ID         string
	Name       string
	City       string
	Slug       string
	Address    string
	WebsiteURL string
}

// Validate checks if the Club has valid data. The slug is lowercased.
// PRE: Club struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Club) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.ToLower(strings.TrimSpace(c.Slug))
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Slug == "" {
		return ErrEmptySlug
	}
	for _, r := range c.Slug {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return ErrInvalidSlug
		}
	}
	return nil
}

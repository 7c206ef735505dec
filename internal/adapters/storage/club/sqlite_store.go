package club

import (
	"context"

	"dojoroster/internal/adapters/storage"
	domain "dojoroster/internal/domain/club"
)

const selectColumns = "SELECT id, name, city, slug, address, website_url FROM club"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClubStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Club by its ID.
// PRE: id is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Club, error) {
	return s.getOne(ctx, selectColumns+" WHERE id = ?", id)
}

// GetBySlug retrieves a Club by its URL slug.
// PRE: slug is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (domain.Club, error) {
	return s.getOne(ctx, selectColumns+" WHERE slug = ?", slug)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg string) (domain.Club, error) {
	var c domain.Club
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.City, &c.Slug, &c.Address, &c.WebsiteURL)
	if err != nil {
		return domain.Club{}, storage.MapNoRows(err, "club not found")
	}
	return c, nil
}

// Save persists a Club to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); a slug used by another club is a duplicate
func (s *SQLiteStore) Save(ctx context.Context, c domain.Club) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO club (id, name, city, slug, address, website_url) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET name=excluded.name, city=excluded.city, slug=excluded.slug, address=excluded.address, website_url=excluded.website_url",
		c.ID, c.Name, c.City, c.Slug, c.Address, c.WebsiteURL,
	)
	return storage.MapWriteError(err, "club slug already in use")
}

// List retrieves all Clubs ordered by name.
// PRE: none
// POST: Returns every club
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Club, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Club
	for rows.Next() {
		var c domain.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.Slug, &c.Address, &c.WebsiteURL); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

package club

import (
	"context"
	"testing"

	"dojoroster/internal/adapters/storage/storagetest"
	"dojoroster/internal/domain/apperr"
	domain "dojoroster/internal/domain/club"
)

// TestSQLiteStore_Lookup tests slug and id lookups.
func TestSQLiteStore_Lookup(t *testing.T) {
	store := NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()

	c, err := store.GetBySlug(ctx, "dojo-nord")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if c.ID != "c1" || c.City != "Hamburg" {
		t.Errorf("club = %+v", c)
	}
	if _, err := store.GetBySlug(ctx, "nope"); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := store.GetByID(ctx, "c2"); err != nil {
		t.Errorf("GetByID: %v", err)
	}
}

// TestSQLiteStore_Save tests upsert and slug uniqueness.
func TestSQLiteStore_Save(t *testing.T) {
	store := NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()

	if err := store.Save(ctx, domain.Club{ID: "c1", Name: "Dojo Nord", City: "Kiel", Slug: "dojo-nord"}); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if c, err := store.GetByID(ctx, "c1"); err != nil || c.City != "Kiel" {
		t.Errorf("updated club = %+v, %v", c, err)
	}
	if err := store.Save(ctx, domain.Club{ID: "c4", Name: "Clash", Slug: "dojo-nord"}); !apperr.IsDuplicate(err) {
		t.Errorf("expected duplicate slug, got %v", err)
	}
}

// TestSQLiteStore_List tests ordering by name.
func TestSQLiteStore_List(t *testing.T) {
	db := storagetest.Open(t)
	storagetest.Exec(t, db, "INSERT INTO club (id, name, slug, website_url) VALUES ('c3', 'Aikido Mitte', 'aikido-mitte', 'https://example.com')")
	store := NewSQLiteStore(db)

	clubs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(clubs) != 3 || clubs[0].Name != "Aikido Mitte" || clubs[0].WebsiteURL != "https://example.com" {
		t.Errorf("clubs = %+v", clubs)
	}
}

package orchestrators

import (
	"context"
	"testing"

	"dojoroster/internal/domain/apperr"
)

// TestExecuteSaveClub tests create, rename and slug conflicts.
func TestExecuteSaveClub(t *testing.T) {
	clubs := memClubs{"c1": {ID: "c1", Name: "Dojo Nord", Slug: "dojo-nord"}}
	deps := ClubDeps{ClubStore: clubs, GenerateID: func() string { return "c-new" }}

	c, err := ExecuteSaveClub(context.Background(), SaveClubInput{Name: " Aikido Mitte ", City: "Berlin", Slug: "Aikido-Mitte"}, deps)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != "c-new" || c.Name != "Aikido Mitte" || c.Slug != "aikido-mitte" || clubs["c-new"].City != "Berlin" {
		t.Errorf("club = %+v", c)
	}

	if _, err := ExecuteSaveClub(context.Background(), SaveClubInput{ID: "c1", Name: "Dojo Nord", City: "Kiel", Slug: "dojo-nord"}, deps); err != nil {
		t.Fatalf("update: %v", err)
	}
	if clubs["c1"].City != "Kiel" {
		t.Errorf("c1 = %+v", clubs["c1"])
	}

	tests := []struct {
		name  string
		in    SaveClubInput
		check func(error) bool
	}{
		{"slug of another club", SaveClubInput{ID: "c1", Name: "Dojo Nord", Slug: "aikido-mitte"}, apperr.IsDuplicate},
		{"bad slug", SaveClubInput{Name: "Dojo", Slug: "dojo/nord"}, apperr.IsValidation},
		{"no name", SaveClubInput{Slug: "x"}, apperr.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExecuteSaveClub(context.Background(), tt.in, deps); !tt.check(err) {
				t.Errorf("error = %v", err)
			}
		})
	}
	if clubs["c1"].Slug != "dojo-nord" {
		t.Errorf("c1 slug changed: %+v", clubs["c1"])
	}
}

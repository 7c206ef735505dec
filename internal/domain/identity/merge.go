// Package identity builds the merged user view over trainers and admins.
// A person who is both a trainer and an admin appears once, joined by
// case-insensitive email.
package identity

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"dojoroster/internal/domain/admin"
	"dojoroster/internal/domain/trainer"
)

// MergedUser is a read-only view of one person.
type MergedUser struct {
	Key          string // "email:<folded>", or "admin:<id>" / "trainer:<id>" without email
	Email        string
	DisplayName  string
	ClubID       string
	TrainerID    string // empty when the person is not a trainer
	AdminID      int64  // zero when the person is not an admin
	IsTrainer    bool
	IsAdmin      bool
	IsSuperAdmin bool
	Username     string
}

// EmailKey returns the join key for an email address.
func EmailKey(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// MergeUsers joins trainers and admins by email.
// PRE: none
// POST: at most one MergedUser per distinct email; admins without an email
// stand alone; output is sorted by display name then key
// INVARIANT: the result does not depend on input order or on repeated records
func MergeUsers(trainers []trainer.Trainer, admins []admin.Admin) []MergedUser {
	ts := append([]trainer.Trainer(nil), trainers...)
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
	as := append([]admin.Admin(nil), admins...)
	sort.SliceStable(as, func(i, j int) bool { return as[i].ID < as[j].ID })

	users := make(map[string]*MergedUser)
	for _, t := range ts {
		k := "trainer:" + t.ID
		if e := EmailKey(t.Email); e != "" {
			k = "email:" + e
		}
		if _, ok := users[k]; ok {
			continue
		}
		users[k] = &MergedUser{
			Key:         k,
			Email:       strings.TrimSpace(t.Email),
			DisplayName: t.Name,
			ClubID:      t.ClubID,
			TrainerID:   t.ID,
			IsTrainer:   true,
		}
	}

	for _, a := range as {
		k := fmt.Sprintf("admin:%d", a.ID)
		if e := EmailKey(a.Email); e != "" {
			k = "email:" + e
		}
		u, ok := users[k]
		if !ok {
			u = &MergedUser{
				Key:         k,
				Email:       strings.TrimSpace(a.Email),
				DisplayName: a.DisplayName(),
				ClubID:      a.ClubID,
			}
			users[k] = u
		}
		if u.IsAdmin {
			u.IsSuperAdmin = u.IsSuperAdmin || a.SuperAdmin
			continue
		}
		u.IsAdmin = true
		u.IsSuperAdmin = a.SuperAdmin
		u.AdminID = a.ID
		u.Username = a.Username
	}

	out := make([]MergedUser, 0, len(users))
	for _, u := range users {
		out = append(out, *u)
	}
	SortByName(out)
	return out
}

// SortByName orders users by collated display name, breaking ties by key.
func SortByName(users []MergedUser) {
	c := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(users, func(i, j int) bool {
		if r := c.CompareString(users[i].DisplayName, users[j].DisplayName); r != 0 {
			return r < 0
		}
		return users[i].Key < users[j].Key
	})
}

// Filter returns users whose name, email or username contains q,
// compared case-insensitively.
func Filter(users []MergedUser, q string) []MergedUser {
	q = EmailKey(q)
	if q == "" {
		return users
	}
	fold := cases.Fold()
	var out []MergedUser
	for _, u := range users {
		if strings.Contains(fold.String(u.DisplayName), q) ||
			strings.Contains(fold.String(u.Email), q) ||
			strings.Contains(fold.String(u.Username), q) {
			out = append(out, u)
		}
	}
	return out
}

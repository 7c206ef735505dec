package projections

import (
	"context"
	"fmt"

	"dojoroster/internal/application/listutil"
	"dojoroster/internal/domain/identity"
)

// Role filter values accepted by QueryGetMergedUsers.
const (
	RoleFilterTrainer = "trainer"
	RoleFilterAdmin   = "admin"
	RoleFilterSuper   = "super"
)

// MergedUserFilterKeys are the filter parameters the merged users list accepts.
var MergedUserFilterKeys = []string{"role"}

// GetMergedUsersQuery carries query parameters.
type GetMergedUsersQuery struct {
	Params listutil.ListParams
}

// GetMergedUsersResult carries the query result.
type GetMergedUsersResult struct {
	Users []identity.MergedUser
	Page  listutil.PageInfo
}

// GetMergedUsersDeps holds dependencies for QueryGetMergedUsers.
type GetMergedUsersDeps struct {
	TrainerStore TrainerStore
	AdminStore   AdminStore
}

// QueryGetMergedUsers merges trainers and admins into one person list.
// PRE: none
// POST: Users are sorted by display name, filtered by search and role, then paged
func QueryGetMergedUsers(ctx context.Context, query GetMergedUsersQuery, deps GetMergedUsersDeps) (GetMergedUsersResult, error) {
	trainers, err := deps.TrainerStore.List(ctx)
	if err != nil {
		return GetMergedUsersResult{}, fmt.Errorf("list trainers: %w", err)
	}
	admins, err := deps.AdminStore.List(ctx)
	if err != nil {
		return GetMergedUsersResult{}, fmt.Errorf("list admins: %w", err)
	}

	users := identity.MergeUsers(trainers, admins)
	identity.SortByName(users)
	users = identity.Filter(users, query.Params.Search)

	if role := query.Params.Filters["role"]; role != "" {
		var kept []identity.MergedUser
		for _, u := range users {
			if hasRole(u, role) {
				kept = append(kept, u)
			}
		}
		users = kept
	}

	page, info := listutil.Paginate(users, query.Params.PageParams)
	return GetMergedUsersResult{Users: page, Page: info}, nil
}

func hasRole(u identity.MergedUser, role string) bool {
	switch role {
	case RoleFilterTrainer:
		return u.IsTrainer
	case RoleFilterAdmin:
		return u.IsAdmin
	case RoleFilterSuper:
		return u.IsSuperAdmin
	}
	return true
}

package access

import (
	"context"
	"fmt"

	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/internal/store"
)

// ResolveRole computes the role a user holds on a project from already-fetched
// state. Pure: same inputs always yield the same role. Precedence, highest
// first: platform admin flag, project ownership, membership grant, none.
// grant may be nil when the user holds no membership on the project.
func ResolveRole(user *models.User, project *models.Project, grant *models.Membership) Role {
	if user == nil || project == nil {
		return RoleNone
	}
	if user.IsAdmin() {
		return RoleAdmin
	}
	if project.OwnerID == user.ID {
		return RoleOwner
	}
	if grant != nil && grant.UserID == user.ID && grant.ProjectID == project.ID {
		return ParseGrantRole(grant.Role)
	}
	return RoleNone
}

// Resolver answers single-project role questions against current store state.
// It never caches: grants can change between calls.
type Resolver struct {
	store store.Store
}

func NewResolver(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// Resolve returns the user's role on the project. Admin and ownership are
// decided without a lookup; otherwise the project's grants are fetched. A
// lookup failure degrades to RoleNone with the error returned as a warning
// for the caller to surface; it is never fatal to a larger aggregation.
func (r *Resolver) Resolve(ctx context.Context, user *models.User, project *models.Project) (Role, error) {
	if user == nil || project == nil {
		return RoleNone, nil
	}
	if user.IsAdmin() {
		return RoleAdmin, nil
	}
	if project.OwnerID == user.ID {
		return RoleOwner, nil
	}

	grants, err := r.store.MembersForProject(ctx, project.ID)
	if err != nil {
		return RoleNone, fmt.Errorf("membership lookup for project %d: %w", project.ID, err)
	}
	for i := range grants {
		if grants[i].UserID == user.ID {
			return ParseGrantRole(grants[i].Role), nil
		}
	}
	return RoleNone, nil
}

package access

import (
	"context"
	"errors"

	"github.com/b0ase/backend/internal/store"
	"github.com/b0ase/backend/pkg/logger"
)

// Gate is the single decision point callers consult before rendering or
// mutating a project. It holds no state between calls, so a revoked grant
// takes effect on the next check.
type Gate struct {
	store    store.Store
	resolver *Resolver
}

func NewGate(st store.Store) *Gate {
	return &Gate{store: st, resolver: NewResolver(st)}
}

// CanAccess reports whether the user holds at least min on the project.
// Fails closed: a vanished user or project, a lookup error, or a RoleNone
// resolution all deny.
func (g *Gate) CanAccess(ctx context.Context, userID, projectID uint, min Role) bool {
	role, err := g.ResolveFor(ctx, userID, projectID)
	if err != nil {
		return false
	}
	return role.AtLeast(min)
}

// ResolveFor loads current user and project state and resolves the role.
func (g *Gate) ResolveFor(ctx context.Context, userID, projectID uint) (Role, error) {
	user, err := g.store.UserProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn().Err(err).Uint("user_id", userID).Msg("profile lookup failed, denying access")
		}
		return RoleNone, err
	}
	if !user.IsActive {
		return RoleNone, nil
	}

	project, err := g.store.ProjectByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn().Err(err).Uint("project_id", projectID).Msg("project lookup failed, denying access")
		}
		return RoleNone, err
	}

	role, err := g.resolver.Resolve(ctx, user, project)
	if err != nil {
		logger.Warn().Err(err).Uint("project_id", projectID).Msg("role resolution degraded")
		return RoleNone, err
	}
	return role, nil
}

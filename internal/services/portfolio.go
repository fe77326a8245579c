package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/b0ase/backend/internal/access"
	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/internal/store"
	"github.com/b0ase/backend/pkg/logger"
)

// PortfolioService aggregates the set of projects a user can see into one
// deduplicated, role-annotated, ordered list. Read-only composition: it is
// recomputed from store state on every call and cached nowhere.
type PortfolioService struct {
	store store.Store
}

func NewPortfolioService(st store.Store) *PortfolioService {
	return &PortfolioService{store: st}
}

// ProjectView is a project together with the viewing user's resolved role
// and, when the user has ranked it, its display position.
type ProjectView struct {
	models.Project
	Role       access.Role `json:"role"`
	OrderIndex *int        `json:"order_index,omitempty"`
}

// ListForUser returns the user's accessible projects. Candidates come from
// two batch fetches, owned projects and membership grants, unioned by
// project id; a platform admin sees every project. A project in both sources
// appears once with the higher-precedence role. Ranked projects sort by
// position ascending; unranked ones follow in creation-descending order.
func (s *PortfolioService) ListForUser(ctx context.Context, userID uint) ([]ProjectView, error) {
	user, err := s.store.UserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile for user %d: %w", userID, err)
	}

	var candidates []models.Project
	grants := make(map[uint]*models.Membership)

	if user.IsAdmin() {
		candidates, err = s.store.AllProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("load projects: %w", err)
		}
	} else {
		owned, err := s.store.OwnedProjects(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load owned projects: %w", err)
		}
		ownedIDs := make(map[uint]bool, len(owned))
		for i := range owned {
			ownedIDs[owned[i].ID] = true
		}

		memberships, err := s.store.MembershipsForUser(ctx, userID)
		if err != nil {
			// Degraded listing: membership source unavailable, grant-derived
			// projects drop out but owned projects still show.
			logger.Warn().Err(err).Uint("user_id", userID).Msg("membership lookup failed, listing owned projects only")
			memberships = nil
		}

		var grantIDs []uint
		for i := range memberships {
			m := memberships[i]
			grants[m.ProjectID] = &memberships[i]
			if !ownedIDs[m.ProjectID] {
				grantIDs = append(grantIDs, m.ProjectID)
			}
		}

		granted, err := s.store.ProjectsByIDs(ctx, grantIDs)
		if err != nil {
			logger.Warn().Err(err).Uint("user_id", userID).Msg("granted project lookup failed, listing owned projects only")
			granted = nil
		}

		candidates = append(owned, granted...)
	}

	seen := make(map[uint]bool, len(candidates))
	views := make([]ProjectView, 0, len(candidates))
	for i := range candidates {
		p := candidates[i]
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		role := access.ResolveRole(user, &p, grants[p.ID])
		if role == access.RoleNone {
			continue
		}
		views = append(views, ProjectView{Project: p, Role: role})
	}

	ranks := make(map[uint]models.ProjectOrder)
	orderRows, err := s.store.OrderForUser(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Uint("user_id", userID).Msg("order lookup failed, falling back to creation order")
	} else {
		for _, row := range orderRows {
			ranks[row.ProjectID] = row
		}
	}

	sortViews(views, ranks)

	for i := range views {
		if row, ok := ranks[views[i].ID]; ok {
			pos := row.Position
			views[i].OrderIndex = &pos
		}
	}
	return views, nil
}

// sortViews orders ranked views by position ascending, breaking position ties
// by rank-row age so a half-written batch keeps the older arrangement first.
// Unranked views sort after all ranked ones, newest project first.
func sortViews(views []ProjectView, ranks map[uint]models.ProjectOrder) {
	sort.SliceStable(views, func(i, j int) bool {
		ri, iRanked := ranks[views[i].ID]
		rj, jRanked := ranks[views[j].ID]

		if iRanked != jRanked {
			return iRanked
		}
		if iRanked {
			if ri.Position != rj.Position {
				return ri.Position < rj.Position
			}
			if !ri.UpdatedAt.Equal(rj.UpdatedAt) {
				return ri.UpdatedAt.Before(rj.UpdatedAt)
			}
			return views[i].ID < views[j].ID
		}
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return views[i].ID > views[j].ID
	})
}

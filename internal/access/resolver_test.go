package access

import (
	"context"
	"errors"
	"testing"

	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/internal/store"
)

// stubStore is a minimal Store for exercising resolution and gating.
type stubStore struct {
	users    map[uint]*models.User
	projects map[uint]*models.Project
	grants   []models.Membership

	profileErr error
	projectErr error
	grantsErr  error
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[uint]*models.User),
		projects: make(map[uint]*models.Project),
	}
}

func (s *stubStore) UserProfile(ctx context.Context, userID uint) (*models.User, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (s *stubStore) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	if s.projectErr != nil {
		return nil, s.projectErr
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (s *stubStore) MembersForProject(ctx context.Context, projectID uint) ([]models.Membership, error) {
	if s.grantsErr != nil {
		return nil, s.grantsErr
	}
	var out []models.Membership
	for _, m := range s.grants {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubStore) OwnedProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	return nil, nil
}

func (s *stubStore) MembershipsForUser(ctx context.Context, userID uint) ([]models.Membership, error) {
	return nil, nil
}

func (s *stubStore) AllProjects(ctx context.Context) ([]models.Project, error) {
	return nil, nil
}

func (s *stubStore) ProjectsByIDs(ctx context.Context, ids []uint) ([]models.Project, error) {
	return nil, nil
}

func (s *stubStore) OrderForUser(ctx context.Context, userID uint) ([]models.ProjectOrder, error) {
	return nil, nil
}

func (s *stubStore) WriteOrderIndex(ctx context.Context, userID, projectID uint, index int) error {
	return nil
}

func TestResolveRolePrecedence(t *testing.T) {
	admin := &models.User{ID: 1, Role: "admin", IsActive: true}
	owner := &models.User{ID: 2, Role: "user", IsActive: true}
	member := &models.User{ID: 3, Role: "user", IsActive: true}
	stranger := &models.User{ID: 4, Role: "user", IsActive: true}
	project := &models.Project{ID: 10, OwnerID: 2}
	grant := &models.Membership{ProjectID: 10, UserID: 3, Role: "freelancer"}

	cases := []struct {
		name    string
		user    *models.User
		project *models.Project
		grant   *models.Membership
		want    Role
	}{
		{"admin override", admin, project, nil, RoleAdmin},
		{"admin override beats own grant", admin, project, &models.Membership{ProjectID: 10, UserID: 1, Role: "viewer"}, RoleAdmin},
		{"owner", owner, project, nil, RoleOwner},
		{"owner beats own grant", owner, project, &models.Membership{ProjectID: 10, UserID: 2, Role: "client"}, RoleOwner},
		{"membership grant", member, project, grant, RoleFreelancer},
		{"no relationship", stranger, project, nil, RoleNone},
		{"unknown grant role", member, project, &models.Membership{ProjectID: 10, UserID: 3, Role: "wizard"}, RoleNone},
		{"grant for different user ignored", stranger, project, grant, RoleNone},
		{"nil user", nil, project, nil, RoleNone},
		{"nil project", member, nil, grant, RoleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveRole(tc.user, tc.project, tc.grant); got != tc.want {
				t.Errorf("ResolveRole() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveRoleIsPure(t *testing.T) {
	user := &models.User{ID: 3, Role: "user", IsActive: true}
	project := &models.Project{ID: 10, OwnerID: 2}
	grant := &models.Membership{ProjectID: 10, UserID: 3, Role: "client"}

	first := ResolveRole(user, project, grant)
	for i := 0; i < 10; i++ {
		if got := ResolveRole(user, project, grant); got != first {
			t.Fatalf("call %d: ResolveRole() = %v, want stable %v", i, got, first)
		}
	}
}

func TestResolverFetchesGrants(t *testing.T) {
	st := newStubStore()
	user := &models.User{ID: 3, Role: "user", IsActive: true}
	project := &models.Project{ID: 10, OwnerID: 2}
	st.grants = append(st.grants, models.Membership{ProjectID: 10, UserID: 3, Role: "project_manager"})

	role, err := NewResolver(st).Resolve(context.Background(), user, project)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if role != RoleProjectManager {
		t.Errorf("Resolve() = %v, want project_manager", role)
	}
}

func TestResolverLookupFailureDegradesToNone(t *testing.T) {
	st := newStubStore()
	st.grantsErr = errors.New("db down")
	user := &models.User{ID: 3, Role: "user", IsActive: true}
	project := &models.Project{ID: 10, OwnerID: 2}

	role, err := NewResolver(st).Resolve(context.Background(), user, project)
	if err == nil {
		t.Fatal("Resolve() error = nil, want lookup failure surfaced")
	}
	if role != RoleNone {
		t.Errorf("Resolve() = %v, want none on lookup failure", role)
	}
}

func TestResolverSkipsLookupForOwnerAndAdmin(t *testing.T) {
	st := newStubStore()
	st.grantsErr = errors.New("db down")
	project := &models.Project{ID: 10, OwnerID: 2}

	role, err := NewResolver(st).Resolve(context.Background(), &models.User{ID: 2, Role: "user", IsActive: true}, project)
	if err != nil || role != RoleOwner {
		t.Errorf("owner Resolve() = %v, %v; want owner, nil", role, err)
	}
	role, err = NewResolver(st).Resolve(context.Background(), &models.User{ID: 9, Role: "admin", IsActive: true}, project)
	if err != nil || role != RoleAdmin {
		t.Errorf("admin Resolve() = %v, %v; want admin, nil", role, err)
	}
}

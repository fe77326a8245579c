package services

import (
	"context"
	"errors"
	"time"

	"github.com/b0ase/backend/internal/models"
)

// fakeStore is an in-memory store with fault injection for exercising the
// aggregation and order-sync paths without a database.
type fakeStore struct {
	users       map[uint]*models.User
	projects    map[uint]*models.Project
	memberships []models.Membership
	orders      map[uint]map[uint]*models.ProjectOrder

	writeFail  map[uint]bool // project ids whose order writes fail
	onWrite    func(projectID uint, index int)
	writeCount int

	profileErr     error
	membershipsErr error
	ordersErr      error

	clock time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uint]*models.User),
		projects:  make(map[uint]*models.Project),
		orders:    make(map[uint]map[uint]*models.ProjectOrder),
		writeFail: make(map[uint]bool),
		clock:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) addUser(id uint, username, role string) *models.User {
	u := &models.User{ID: id, Username: username, Role: role, IsActive: true}
	f.users[id] = u
	return u
}

func (f *fakeStore) addProject(id, ownerID uint, name string) *models.Project {
	p := &models.Project{ID: id, Name: name, Slug: name, OwnerID: ownerID, CreatedAt: f.tick()}
	f.projects[id] = p
	return p
}

func (f *fakeStore) grant(projectID, userID uint, role string) {
	f.memberships = append(f.memberships, models.Membership{
		ID:        uint(len(f.memberships) + 1),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	})
}

func (f *fakeStore) rank(userID, projectID uint, position int) {
	if f.orders[userID] == nil {
		f.orders[userID] = make(map[uint]*models.ProjectOrder)
	}
	f.orders[userID][projectID] = &models.ProjectOrder{
		UserID:    userID,
		ProjectID: projectID,
		Position:  position,
		UpdatedAt: f.tick(),
	}
}

// positions returns the stored rank of every project for the user.
func (f *fakeStore) positions(userID uint) map[uint]int {
	out := make(map[uint]int)
	for pid, row := range f.orders[userID] {
		out[pid] = row.Position
	}
	return out
}

func (f *fakeStore) UserProfile(ctx context.Context, userID uint) (*models.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeStore) OwnedProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if p.OwnerID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) MembershipsForUser(ctx context.Context, userID uint) ([]models.Membership, error) {
	if f.membershipsErr != nil {
		return nil, f.membershipsErr
	}
	var out []models.Membership
	for _, m := range f.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) AllProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) MembersForProject(ctx context.Context, projectID uint) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range f.memberships {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, errors.New("project not found")
	}
	return p, nil
}

func (f *fakeStore) ProjectsByIDs(ctx context.Context, ids []uint) ([]models.Project, error) {
	var out []models.Project
	for _, id := range ids {
		if p, ok := f.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) OrderForUser(ctx context.Context, userID uint) ([]models.ProjectOrder, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	var out []models.ProjectOrder
	for _, row := range f.orders[userID] {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeStore) WriteOrderIndex(ctx context.Context, userID, projectID uint, index int) error {
	if f.writeFail[projectID] {
		return errors.New("write failed")
	}
	f.writeCount++
	if f.onWrite != nil {
		f.onWrite(projectID, index)
	}
	if f.orders[userID] == nil {
		f.orders[userID] = make(map[uint]*models.ProjectOrder)
	}
	row, ok := f.orders[userID][projectID]
	if !ok {
		f.orders[userID][projectID] = &models.ProjectOrder{
			UserID:    userID,
			ProjectID: projectID,
			Position:  index,
			UpdatedAt: f.tick(),
		}
		return nil
	}
	row.Position = index
	row.UpdatedAt = f.tick()
	return nil
}

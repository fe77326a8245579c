package store

import (
	"context"
	"errors"

	"github.com/b0ase/backend/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence boundary for project access and ordering.
// Implementations must not cache between calls: grants and profiles are
// mutable and every resolution pass re-reads current state. Writes are
// independent single-row operations; the boundary offers no multi-row
// transaction.
type Store interface {
	// UserProfile returns the user row carrying the platform role flag.
	UserProfile(ctx context.Context, userID uint) (*models.User, error)

	// OwnedProjects returns all projects the user owns.
	OwnedProjects(ctx context.Context, userID uint) ([]models.Project, error)

	// MembershipsForUser returns all grants held by the user.
	MembershipsForUser(ctx context.Context, userID uint) ([]models.Membership, error)

	// AllProjects returns every existing project (admin path).
	AllProjects(ctx context.Context) ([]models.Project, error)

	// MembersForProject returns all grants on one project.
	MembersForProject(ctx context.Context, projectID uint) ([]models.Membership, error)

	// ProjectByID returns a single project or ErrNotFound.
	ProjectByID(ctx context.Context, id uint) (*models.Project, error)

	// ProjectsByIDs returns the projects that still exist among ids;
	// vanished ids are simply absent from the result.
	ProjectsByIDs(ctx context.Context, ids []uint) ([]models.Project, error)

	// OrderForUser returns the user's display rank rows.
	OrderForUser(ctx context.Context, userID uint) ([]models.ProjectOrder, error)

	// WriteOrderIndex upserts one (user, project) rank row.
	WriteOrderIndex(ctx context.Context, userID, projectID uint, index int) error
}

package store

import (
	"context"
	"errors"

	"github.com/b0ase/backend/internal/models"
	"gorm.io/gorm"
)

// GormStore implements Store on a gorm database handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) UserProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) OwnedProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Where("owner_id = ?", userID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *GormStore) MembershipsForUser(ctx context.Context, userID uint) ([]models.Membership, error) {
	var grants []models.Membership
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (s *GormStore) AllProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *GormStore) MembersForProject(ctx context.Context, projectID uint) ([]models.Membership, error) {
	var grants []models.Membership
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (s *GormStore) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *GormStore) ProjectsByIDs(ctx context.Context, ids []uint) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var projects []models.Project
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *GormStore) OrderForUser(ctx context.Context, userID uint) ([]models.ProjectOrder, error) {
	var rows []models.ProjectOrder
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) WriteOrderIndex(ctx context.Context, userID, projectID uint, index int) error {
	var row models.ProjectOrder
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.ProjectOrder{UserID: userID, ProjectID: projectID, Position: index}
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	if row.Position == index {
		return nil
	}
	return s.db.WithContext(ctx).Model(&row).Update("position", index).Error
}

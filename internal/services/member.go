package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/b0ase/backend/internal/access"
	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/pkg/logger"
)

// MemberService manages membership grants on projects. A grant for an
// existing (project, user) pair updates the stored role in place; the unique
// index keeps the pair single-rowed.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

type GrantRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// ListForProject returns every grant on a project with user info attached.
func (s *MemberService) ListForProject(projectID uint) ([]models.Membership, error) {
	var members []models.Membership
	if err := s.db.Preload("User").Where("project_id = ?", projectID).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Grant gives a user a role on a project, replacing any existing grant for
// the pair. The project owner cannot be granted a membership role; ownership
// already outranks every grant.
func (s *MemberService) Grant(projectID uint, req *GrantRequest, grantedBy *models.User) (*models.Membership, error) {
	if !access.ValidGrantRole(req.Role) {
		return nil, errors.New("invalid role")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, errors.New("project not found")
	}
	if project.OwnerID == req.UserID {
		return nil, errors.New("cannot grant a role to the project owner")
	}

	var user models.User
	if err := s.db.First(&user, req.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	var member models.Membership
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, req.UserID).First(&member).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		member = models.Membership{
			ProjectID: projectID,
			UserID:    req.UserID,
			Role:      req.Role,
		}
		if err := s.db.Create(&member).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := s.db.Model(&member).Update("role", req.Role).Error; err != nil {
			return nil, err
		}
	}

	s.notify(&project, &user, req.Role, false, grantedBy)
	return &member, nil
}

// Revoke removes a user's grant on a project. Their owned relationship, if
// any, is untouched.
func (s *MemberService) Revoke(projectID, userID uint, revokedBy *models.User) error {
	var member models.Membership
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("membership not found")
		}
		return err
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return err
	}

	var project models.Project
	var user models.User
	if err := s.db.First(&project, projectID).Error; err == nil {
		if err := s.db.First(&user, userID).Error; err == nil {
			s.notify(&project, &user, member.Role, true, revokedBy)
		}
	}
	return nil
}

func (s *MemberService) notify(project *models.Project, user *models.User, role string, revoked bool, by *models.User) {
	queue := GetTaskQueue()
	if queue == nil {
		return
	}

	task := &GrantNoticeTask{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		UserID:      user.ID,
		Email:       user.Email,
		Role:        role,
		Revoked:     revoked,
	}
	if by != nil {
		task.GrantedBy = by.Username
	}

	if err := queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Uint("project_id", project.ID).Uint("user_id", user.ID).Msg("failed to enqueue grant notice")
	}
}

package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/b0ase/backend/internal/models"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Name     string `form:"name"`
	Status   string `form:"status"`
	Category string `form:"category"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name       string `json:"name" binding:"required"`
	Brief      string `json:"brief"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	IsFeatured bool   `json:"is_featured"`
	IsPublic   bool   `json:"is_public"`
}

type UpdateProjectRequest struct {
	Name       string `json:"name"`
	Brief      string `json:"brief"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	IsFeatured *bool  `json:"is_featured"`
	IsPublic   *bool  `json:"is_public"`
}

// List returns paginated projects for the admin listing.
func (s *ProjectService) List(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByID returns a project by ID.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetBySlug returns a project by its slug.
func (s *ProjectService) GetBySlug(slug string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("slug = ?", slug).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Create creates a new project owned by the caller.
func (s *ProjectService) Create(req *CreateProjectRequest, ownerID uint) (*models.Project, error) {
	if req.Status == "" {
		req.Status = "active"
	}

	project := models.Project{
		Name:       req.Name,
		Slug:       s.uniqueSlug(req.Name),
		Brief:      req.Brief,
		URL:        req.URL,
		Status:     req.Status,
		Category:   req.Category,
		Priority:   req.Priority,
		IsFeatured: req.IsFeatured,
		IsPublic:   req.IsPublic,
		OwnerID:    ownerID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Update applies the non-empty fields of req to a project.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Brief != "" {
		updates["brief"] = req.Brief
	}
	if req.URL != "" {
		updates["url"] = req.URL
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Delete soft-deletes a project along with its memberships. Per-user order
// rows are left to the retention job; listings never surface them once the
// project is gone.
func (s *ProjectService) Delete(id uint) error {
	result := s.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("project not found")
	}
	s.db.Where("project_id = ?", id).Delete(&models.Membership{})
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// uniqueSlug derives a URL slug from the project name, adding a short random
// suffix when the plain slug is taken.
func (s *ProjectService) uniqueSlug(name string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "project"
	}

	var count int64
	s.db.Model(&models.Project{}).Where("slug = ?", slug).Count(&count)
	if count == 0 {
		return slug
	}
	return slug + "-" + uuid.NewString()[:8]
}

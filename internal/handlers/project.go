package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/b0ase/backend/internal/access"
	"github.com/b0ase/backend/internal/middleware"
	"github.com/b0ase/backend/internal/services"
	"github.com/b0ase/backend/internal/store"
	"github.com/b0ase/backend/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	gate           *access.Gate
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
		gate:           access.NewGate(store.NewGormStore(db)),
	}
}

// List returns paginated projects (admin only, wired in routes)
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}

// GetByID returns a project the caller can see
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if !h.gate.CanAccess(c.Request.Context(), middleware.GetUserID(c), uint(id), access.RoleViewer) {
		response.Forbidden(c, "no access to this project")
		return
	}

	project, err := h.projectService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "project not found")
		return
	}
	response.Success(c, project)
}

// Create creates a new project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, project)
}

// Update updates a project; requires project manager access or better
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if !h.gate.CanAccess(c.Request.Context(), middleware.GetUserID(c), uint(id), access.RoleProjectManager) {
		response.Forbidden(c, "project manager access required")
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Renaming is reserved for the owner
	if req.Name != "" && !h.gate.CanAccess(c.Request.Context(), middleware.GetUserID(c), uint(id), access.RoleOwner) {
		response.Forbidden(c, "owner access required to rename a project")
		return
	}

	project, err := h.projectService.Update(uint(id), &req)
	if err != nil {
		response.NotFound(c, "project not found")
		return
	}
	response.Success(c, project)
}

// Delete removes a project; only the owner or an admin may delete
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if !h.gate.CanAccess(c.Request.Context(), middleware.GetUserID(c), uint(id), access.RoleOwner) {
		response.Forbidden(c, "owner access required")
		return
	}

	if err := h.projectService.Delete(uint(id)); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "project deleted"})
}

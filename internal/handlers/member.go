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

type MemberHandler struct {
	memberService *services.MemberService
	authService   *services.AuthService
	gate          *access.Gate
}

func NewMemberHandler(db *gorm.DB, authService *services.AuthService) *MemberHandler {
	return &MemberHandler{
		memberService: services.NewMemberService(db),
		authService:   authService,
		gate:          access.NewGate(store.NewGormStore(db)),
	}
}

// List returns a project's membership grants
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if !h.gate.CanAccess(c.Request.Context(), middleware.GetUserID(c), uint(projectID), access.RoleViewer) {
		response.Forbidden(c, "no access to this project")
		return
	}

	members, err := h.memberService.ListForProject(uint(projectID))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"items": members, "total": len(members)})
}

// Grant adds or updates a membership; requires project manager access or better
// POST /api/projects/:id/members
func (h *MemberHandler) Grant(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	callerID := middleware.GetUserID(c)
	if !h.gate.CanAccess(c.Request.Context(), callerID, uint(projectID), access.RoleProjectManager) {
		response.Forbidden(c, "project manager access required")
		return
	}

	var req services.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	caller, err := h.authService.GetUserByID(callerID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	member, err := h.memberService.Grant(uint(projectID), &req, caller)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, member)
}

// Revoke removes a user's membership; requires project manager access or better
// DELETE /api/projects/:id/members/:user_id
func (h *MemberHandler) Revoke(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	callerID := middleware.GetUserID(c)
	if !h.gate.CanAccess(c.Request.Context(), callerID, uint(projectID), access.RoleProjectManager) {
		response.Forbidden(c, "project manager access required")
		return
	}

	caller, _ := h.authService.GetUserByID(callerID)
	if err := h.memberService.Revoke(uint(projectID), uint(userID), caller); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "membership revoked"})
}

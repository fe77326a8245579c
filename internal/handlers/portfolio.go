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

// PortfolioHandler serves the per-user project dashboard: the role-annotated
// list, drag reorder persistence, and access checks.
type PortfolioHandler struct {
	portfolio *services.PortfolioService
	orderSync *services.OrderSync
	gate      *access.Gate
}

func NewPortfolioHandler(db *gorm.DB) *PortfolioHandler {
	st := store.NewGormStore(db)
	portfolio := services.NewPortfolioService(st)
	return &PortfolioHandler{
		portfolio: portfolio,
		orderSync: services.NewOrderSync(st, portfolio),
		gate:      access.NewGate(st),
	}
}

// List returns the caller's accessible projects in display order
// GET /api/portfolio
func (h *PortfolioHandler) List(c *gin.Context) {
	views, err := h.portfolio.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"projects": views, "total": len(views)})
}

// Reorder persists a drag-completed arrangement
// POST /api/portfolio/reorder
func (h *PortfolioHandler) Reorder(c *gin.Context) {
	var req services.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderSync.Reorder(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// CanAccess reports whether the caller holds at least min_role on a project
// GET /api/portfolio/can-access?project_id=1&min_role=viewer
func (h *PortfolioHandler) CanAccess(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Query("project_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	min := access.RoleViewer
	if s := c.Query("min_role"); s != "" {
		min = access.ParseRole(s)
		if min == access.RoleNone {
			response.BadRequest(c, "unknown role")
			return
		}
	}

	allowed := h.gate.CanAccess(c.Request.Context(), middleware.GetUserID(c), uint(projectID), min)
	response.Success(c, gin.H{"allowed": allowed})
}

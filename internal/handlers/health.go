package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/internal/services"
)

// HealthHandler reports the health of the service's subsystems.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	var projectCount int64
	models.GetDB().Model(&models.Project{}).Count(&projectCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "b0ase-backend",
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
			"projects":   projectCount,
		},
	})
}

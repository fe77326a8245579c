package main

import (
	"github.com/gin-gonic/gin"

	"github.com/b0ase/backend/internal/handlers"
	"github.com/b0ase/backend/internal/middleware"
	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	authLimiter := middleware.NewRateLimiter(5, 10)

	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Portfolio: per-user dashboard list, reorder, access checks
			portfolioHandler := handlers.NewPortfolioHandler(models.GetDB())
			protected.GET("/portfolio", portfolioHandler.List)
			protected.POST("/portfolio/reorder", portfolioHandler.Reorder)
			protected.GET("/portfolio/can-access", portfolioHandler.CanAccess)

			// Projects: per-route role checks inside the handlers
			projectHandler := handlers.NewProjectHandler(models.GetDB())
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)

			// Memberships
			memberHandler := handlers.NewMemberHandler(models.GetDB(), svc.authService)
			protected.GET("/projects/:id/members", memberHandler.List)
			protected.POST("/projects/:id/members", memberHandler.Grant)
			protected.DELETE("/projects/:id/members/:user_id", memberHandler.Revoke)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			projectHandler := handlers.NewProjectHandler(models.GetDB())
			admin.GET("/projects", projectHandler.List)

			userHandler := handlers.NewUserHandler(models.GetDB())
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.Modules)
		}
	}
}

package main

import (
	"context"

	"github.com/b0ase/backend/internal/config"
	"github.com/b0ase/backend/internal/handlers"
	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/internal/services"
	"github.com/b0ase/backend/internal/utils"
	"github.com/b0ase/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	retentionService *services.RetentionService
	emailService     *services.EmailService
	taskQueue        services.TaskQueue
	worker           *services.Worker
	authService      *services.AuthService
	authHandler      *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(models.GetDB())

	// Nightly housekeeping: audit logs, spent refresh tokens, orphaned order rows
	retentionService := services.NewRetentionService(models.GetDB(), &cfg.Log)
	retentionService.StartScheduler()

	// Grant notices go through the task queue; async with Redis, in-process otherwise
	emailService := services.NewEmailService(&cfg.SMTP)
	taskQueue := services.InitTaskQueue(cfg)
	deliver := func(ctx context.Context, task *services.GrantNoticeTask) error {
		return emailService.SendGrantNotice(task)
	}
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(deliver)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(deliver)
			worker.Start()
		}
	}

	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		retentionService: retentionService,
		emailService:     emailService,
		taskQueue:        taskQueue,
		worker:           worker,
		authService:      authService,
		authHandler:      authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.retentionService.StopScheduler()
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All services stopped")
}

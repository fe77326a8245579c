package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/b0ase/backend/internal/config"
	"github.com/b0ase/backend/internal/models"
	"github.com/b0ase/backend/pkg/logger"
)

// RetentionService runs nightly housekeeping: expired audit logs, spent
// refresh tokens, and order rows whose project or user is gone. Orphaned
// order rows are harmless to listings, which only rank projects that still
// resolve, but they accumulate without this.
type RetentionService struct {
	db            *gorm.DB
	logService    *SystemLogService
	retentionDays int
	scheduler     *cron.Cron
}

func NewRetentionService(db *gorm.DB, cfg *config.LogConfig) *RetentionService {
	return &RetentionService{
		db:            db,
		logService:    NewSystemLogService(db),
		retentionDays: cfg.RetentionDays,
	}
}

// StartScheduler runs housekeeping once at boot and then every night.
func (s *RetentionService) StartScheduler() {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("30 3 * * *", s.Run); err != nil {
		logger.Error().Err(err).Msg("failed to schedule retention job")
		return
	}

	s.scheduler.Start()
	logger.Info().Int("retention_days", s.retentionDays).Msg("retention scheduler started")

	go s.Run()
}

func (s *RetentionService) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Run executes one housekeeping pass.
func (s *RetentionService) Run() {
	if deleted, err := s.logService.CleanupOldLogs(s.retentionDays); err != nil {
		logger.Error().Err(err).Msg("system log cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", s.retentionDays).Msg("cleaned up system logs")
	}

	if deleted, err := s.pruneExpiredRefreshTokens(); err != nil {
		logger.Error().Err(err).Msg("refresh token cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("pruned expired refresh tokens")
	}

	if deleted, err := s.pruneOrphanedOrderRows(); err != nil {
		logger.Error().Err(err).Msg("order row cleanup failed")
	} else if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("pruned orphaned order rows")
	}
}

func (s *RetentionService) pruneExpiredRefreshTokens() (int64, error) {
	result := s.db.
		Where("expires_at < ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

// pruneOrphanedOrderRows deletes rank rows referencing soft-deleted projects
// or users.
func (s *RetentionService) pruneOrphanedOrderRows() (int64, error) {
	result := s.db.
		Where("project_id NOT IN (?)", s.db.Model(&models.Project{}).Select("id")).
		Or("user_id NOT IN (?)", s.db.Model(&models.User{}).Select("id")).
		Delete(&models.ProjectOrder{})
	return result.RowsAffected, result.Error
}

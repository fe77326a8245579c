package models

import (
	"fmt"

	"github.com/b0ase/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}

// InitDB opens the configured database and stores the global handle.
func InitDB(cfg *config.DatabaseConfig) error {
	dialector, err := openDialector(cfg)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

// AutoMigrate creates or updates the schema for all model tables.
func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Project{},
		&Membership{},
		&ProjectOrder{},
		&RefreshToken{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

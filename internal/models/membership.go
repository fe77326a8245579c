package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership grants a user a role on a project short of ownership.
// One row per (project, user) pair; re-granting updates the existing row.
type Membership struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint           `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string         `gorm:"size:50;default:viewer" json:"role"` // project_manager, freelancer, client, viewer
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Membership) TableName() string { return "memberships" }

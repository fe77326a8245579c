package models

import "time"

// ProjectOrder holds one user's display rank for one project. Positions are
// assigned only by the order sync and are meaningless outside the context of
// that user's current list. No soft delete; stale rows are pruned by the
// retention job.
type ProjectOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_project;not null" json:"user_id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_user_project;not null" json:"project_id"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectOrder) TableName() string { return "project_orders" }

package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a client project shown on the dashboard. Every project
// has exactly one owning user; everyone else gets in through a Membership.
type Project struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:200;not null" json:"name"`
	Slug       string         `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Brief      string         `gorm:"type:text" json:"brief"`
	URL        string         `gorm:"size:500" json:"url"` // live site, if any
	Status     string         `gorm:"size:50" json:"status"`
	Category   string         `gorm:"size:50" json:"category"` // SaaS, Website, ...
	Priority   string         `gorm:"size:50" json:"priority"` // High Priority, ...
	IsFeatured bool           `gorm:"default:false" json:"is_featured"`
	IsPublic   bool           `gorm:"default:false" json:"is_public"`
	OwnerID    uint           `gorm:"index;not null" json:"owner_id"`
	Owner      *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

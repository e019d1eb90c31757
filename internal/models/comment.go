package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a blog. Comments are always listed
// newest-first.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"not null" json:"content"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	BlogID    uint           `gorm:"not null;index" json:"blog_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Blog      Blog           `gorm:"foreignKey:BlogID" json:"blog,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

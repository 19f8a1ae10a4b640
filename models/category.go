package models

import (
	"time"
)

// Category name is unique per owner, not globally.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:uq_user_category_name" json:"name"`
	Description string    `json:"description"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:uq_user_category_name" json:"user_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// CategoryWithCount is the list-endpoint shape: a category plus the number
// of tasks currently attached to it, regardless of task status.
type CategoryWithCount struct {
	Category
	TasksCount int64 `json:"tasks_count"`
}

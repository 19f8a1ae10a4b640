package models

import (
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `json:"description"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Priority    Priority   `gorm:"size:10;not null;index" json:"priority"`
	Status      Status     `gorm:"size:10;not null;index" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// TaskResponse is the wire shape for a task. When the task has a category,
// the category's current name and description are denormalized into the
// response at read time.
type TaskResponse struct {
	ID                  uint       `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	UserID              uint       `json:"user_id"`
	CategoryID          *uint      `json:"category_id"`
	Priority            Priority   `json:"priority"`
	Status              Status     `json:"status"`
	DueDate             *time.Time `json:"due_date"`
	CompletedAt         *time.Time `json:"completed_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CategoryName        *string    `json:"category_name"`
	CategoryDescription *string    `json:"category_description"`
}

func NewTaskResponse(task Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		UserID:      task.UserID,
		CategoryID:  task.CategoryID,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Category != nil {
		resp.CategoryName = &task.Category.Name
		resp.CategoryDescription = &task.Category.Description
	}
	return resp
}

// TaskListResponse is the paginated list shape. Total counts every row
// matching the filters, independent of limit/offset.
type TaskListResponse struct {
	Items  []TaskResponse `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type TaskStats struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

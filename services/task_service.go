package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"taskhub/taskhub/broker"
	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
)

// TaskCreateInput carries the create payload into the service. A nil
// CategoryID means uncategorized; a nil Priority defaults to medium.
type TaskCreateInput struct {
	Title       string
	Description string
	CategoryID  *uint
	Priority    models.Priority
	DueDate     *time.Time
}

// TaskListParams are the listing filters. Category is the raw query value:
// empty means no category predicate, the literal "null" selects uncategorized
// tasks, and a numeric id selects one category (which must be owned by the
// caller). Anything else is a validation error.
type TaskListParams struct {
	Limit     int
	Offset    int
	Status    string
	Search    string
	Category  string
	SortBy    string
	SortOrder string
}

type TaskServiceInterface interface {
	CreateTask(db *database.Database, userID uint, input TaskCreateInput) (models.Task, error)
	GetTaskById(db *database.Database, userID, taskID uint) (models.Task, error)
	UpdateTask(db *database.Database, userID, taskID uint, updatedData map[string]interface{}) (models.Task, error)
	ListTasks(db *database.Database, userID uint, params TaskListParams) ([]models.Task, int64, error)
	MarkTaskCompleted(db *database.Database, userID, taskID uint) (models.Task, error)
	MarkTaskPending(db *database.Database, userID, taskID uint) (models.Task, error)
	DeleteTask(db *database.Database, userID, taskID uint) error
	GetTaskStats(db *database.Database, userID uint) (models.TaskStats, error)
}

type TaskService struct{}

var taskSortColumns = map[string]bool{
	"created_at": true,
	"priority":   true,
	"due_date":   true,
	"status":     true,
}

// CreateTask creates a task for the user. A supplied category must belong to
// the same user; a bad reference is invalid input, not a lookup miss.
func (s *TaskService) CreateTask(db *database.Database, userID uint, input TaskCreateInput) (models.Task, error) {
	if input.CategoryID != nil {
		var category models.Category
		err := db.DB.Where("id = ? AND user_id = ?", *input.CategoryID, userID).First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Task{}, ErrCategoryNotOwned
			}
			return models.Task{}, err
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return models.Task{}, ErrValidation
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Priority:    priority,
		Status:      models.StatusPending,
		DueDate:     input.DueDate,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskCreated),
		"task",
		task.Title,
		map[string]interface{}{
			"task_id": task.ID,
			"user_id": task.UserID,
			"title":   task.Title,
			"status":  task.Status,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	broker.PublishEvent(db, broker.TaskSubject, event)

	return s.GetTaskById(db, userID, task.ID)
}

// GetTaskById fetches a task scoped to its owner, with the category loaded
// so responses can denormalize its name and description.
func (s *TaskService) GetTaskById(db *database.Database, userID, taskID uint) (models.Task, error) {
	var task models.Task
	err := db.DB.Preload("Category").Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update. A field is touched only when present
// in updatedData, which is what distinguishes an omitted category_id from an
// explicit null (detach). Status is not mutable here; only the dedicated
// transitions change it.
func (s *TaskService) UpdateTask(db *database.Database, userID, taskID uint, updatedData map[string]interface{}) (models.Task, error) {
	task, err := s.GetTaskById(db, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	updates := make(map[string]interface{})

	if raw, ok := updatedData["title"]; ok {
		title, ok := raw.(string)
		if !ok || title == "" || utf8.RuneCountInString(title) > 200 {
			return models.Task{}, ErrValidation
		}
		updates["title"] = title
	}

	if raw, ok := updatedData["description"]; ok {
		description, ok := raw.(string)
		if !ok {
			return models.Task{}, ErrValidation
		}
		updates["description"] = description
	}

	if raw, ok := updatedData["priority"]; ok {
		priorityStr, ok := raw.(string)
		if !ok || !models.Priority(priorityStr).IsValid() {
			return models.Task{}, ErrValidation
		}
		updates["priority"] = priorityStr
	}

	if raw, ok := updatedData["due_date"]; ok {
		if raw == nil {
			updates["due_date"] = nil
		} else {
			dueDateStr, ok := raw.(string)
			if !ok {
				return models.Task{}, ErrValidation
			}
			dueDate, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				return models.Task{}, ErrValidation
			}
			updates["due_date"] = dueDate
		}
	}

	if raw, ok := updatedData["category_id"]; ok {
		if raw == nil {
			updates["category_id"] = nil
		} else {
			idFloat, ok := raw.(float64)
			if !ok || idFloat != math.Trunc(idFloat) || idFloat < 0 {
				return models.Task{}, ErrValidation
			}
			categoryID := uint(idFloat)
			var category models.Category
			err := db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.Task{}, ErrCategoryNotOwned
				}
				return models.Task{}, err
			}
			updates["category_id"] = categoryID
		}
	}

	if len(updates) == 0 {
		return task, nil
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	if err := tx.Model(&task).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskUpdated),
		"task",
		task.Title,
		map[string]interface{}{
			"task_id": task.ID,
			"user_id": task.UserID,
			"title":   task.Title,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	broker.PublishEvent(db, broker.TaskSubject, event)

	return s.GetTaskById(db, userID, taskID)
}

// ListTasks returns one page of the user's tasks plus the total count of
// rows matching the filters. Limit and offset never affect the total.
// Sorting by priority or status orders by the stored string values, so
// priority ascends high < low < medium.
func (s *TaskService) ListTasks(db *database.Database, userID uint, params TaskListParams) ([]models.Task, int64, error) {
	if params.Limit < 1 || params.Limit > 100 || params.Offset < 0 {
		return nil, 0, ErrValidation
	}

	switch params.Status {
	case "all", string(models.StatusPending), string(models.StatusCompleted):
	default:
		return nil, 0, ErrValidation
	}

	if !taskSortColumns[params.SortBy] {
		return nil, 0, ErrValidation
	}
	if params.SortOrder != "asc" && params.SortOrder != "desc" {
		return nil, 0, ErrValidation
	}

	query := db.DB.Model(&models.Task{}).Where("user_id = ?", userID)

	if params.Status != "all" {
		query = query.Where("status = ?", params.Status)
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	switch params.Category {
	case "":
	case "null":
		query = query.Where("category_id IS NULL")
	default:
		categoryID, err := strconv.ParseUint(params.Category, 10, 64)
		if err != nil {
			return nil, 0, ErrValidation
		}
		var category models.Category
		err = db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrCategoryNotFound
			}
			return nil, 0, err
		}
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := query.
		Preload("Category").
		Order(params.SortBy + " " + params.SortOrder).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// MarkTaskCompleted transitions a task to completed. Re-completing an
// already-completed task is a no-op that preserves the original
// completed_at, so the operation is exactly idempotent.
func (s *TaskService) MarkTaskCompleted(db *database.Database, userID, taskID uint) (models.Task, error) {
	task, err := s.GetTaskById(db, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if task.Status == models.StatusCompleted {
		return task, nil
	}

	now := time.Now().UTC()
	return s.transition(db, task, models.StatusCompleted, &now, broker.TaskCompleted)
}

// MarkTaskPending is the symmetric transition back to pending, clearing
// completed_at. Also idempotent.
func (s *TaskService) MarkTaskPending(db *database.Database, userID, taskID uint) (models.Task, error) {
	task, err := s.GetTaskById(db, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if task.Status == models.StatusPending {
		return task, nil
	}

	return s.transition(db, task, models.StatusPending, nil, broker.TaskUncompleted)
}

func (s *TaskService) transition(db *database.Database, task models.Task, status models.Status, completedAt *time.Time, eventType broker.EventType) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	updates := map[string]interface{}{
		"status":       status,
		"completed_at": completedAt,
	}
	if err := tx.Model(&task).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(eventType),
		"task",
		task.Title,
		map[string]interface{}{
			"task_id": task.ID,
			"user_id": task.UserID,
			"status":  status,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	broker.PublishEvent(db, broker.TaskSubject, event)

	task.Status = status
	task.CompletedAt = completedAt
	return task, nil
}

// DeleteTask hard-deletes an owned task. Tasks have no dependents, so there
// is nothing to cascade.
func (s *TaskService) DeleteTask(db *database.Database, userID, taskID uint) error {
	task, err := s.GetTaskById(db, userID, taskID)
	if err != nil {
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.TaskDeleted),
		"task",
		task.Title,
		map[string]interface{}{
			"task_id": task.ID,
			"user_id": task.UserID,
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	broker.PublishEvent(db, broker.TaskSubject, event)

	return nil
}

// GetTaskStats aggregates completion counts for the user. The completion
// rate is a percentage rounded to two decimals, and exactly 0 for a user
// with no tasks.
func (s *TaskService) GetTaskStats(db *database.Database, userID uint) (models.TaskStats, error) {
	var total int64
	err := db.DB.Model(&models.Task{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return models.TaskStats{}, err
	}

	var completed int64
	err = db.DB.Model(&models.Task{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return models.TaskStats{}, err
	}

	stats := models.TaskStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
	if total > 0 {
		stats.CompletionRate = math.Round(float64(completed)/float64(total)*100*100) / 100
	}
	return stats, nil
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}

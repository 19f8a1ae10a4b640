package services

import (
	"errors"

	"gorm.io/gorm"

	"taskhub/taskhub/broker"
	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
)

type CategoryServiceInterface interface {
	CreateCategory(db *database.Database, userID uint, name, description string) (models.Category, error)
	UpdateCategory(db *database.Database, userID, categoryID uint, name, description *string) (models.Category, error)
	ListCategories(db *database.Database, userID uint) ([]models.CategoryWithCount, error)
	DeleteCategory(db *database.Database, userID, categoryID uint) error
	GetCategoryIfOwned(db *database.Database, categoryID, userID uint) (models.Category, error)
}

type CategoryService struct{}

// GetCategoryIfOwned looks up a category scoped to its owner. A category
// that exists but belongs to another user is indistinguishable from one
// that does not exist.
func (s *CategoryService) GetCategoryIfOwned(db *database.Database, categoryID, userID uint) (models.Category, error) {
	var category models.Category
	err := db.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

// CreateCategory creates a category with a per-user unique name. The
// pre-check gives a friendly error; the composite unique index is the
// authoritative guard under concurrency.
func (s *CategoryService) CreateCategory(db *database.Database, userID uint, name, description string) (models.Category, error) {
	var existing models.Category
	err := db.DB.Where("name = ? AND user_id = ?", name, userID).First(&existing).Error
	if err == nil {
		return models.Category{}, ErrCategoryExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Category{}, err
	}

	category := models.Category{
		Name:        name,
		Description: description,
		UserID:      userID,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	if err := tx.Create(&category).Error; err != nil {
		tx.Rollback()
		if database.IsUniqueViolation(err) {
			return models.Category{}, ErrCategoryExists
		}
		return models.Category{}, err
	}

	event, err := models.NewEvent(
		string(broker.CategoryCreated),
		"category",
		category.Name,
		map[string]interface{}{
			"category_id": category.ID,
			"user_id":     category.UserID,
			"name":        category.Name,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	broker.PublishEvent(db, broker.CategorySubject, event)

	return category, nil
}

// UpdateCategory applies a partial update of name and description. When a
// new name is supplied, the check runs against every category the user owns,
// including this one, so resubmitting the current name reports a conflict.
func (s *CategoryService) UpdateCategory(db *database.Database, userID, categoryID uint, name, description *string) (models.Category, error) {
	category, err := s.GetCategoryIfOwned(db, categoryID, userID)
	if err != nil {
		return models.Category{}, err
	}

	updates := make(map[string]interface{})

	if name != nil {
		var sameName models.Category
		err = db.DB.Where("name = ? AND user_id = ?", *name, userID).First(&sameName).Error
		if err == nil {
			return models.Category{}, ErrCategoryExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, err
		}
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) == 0 {
		return category, nil
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Category{}, tx.Error
	}

	if err := tx.Model(&category).Updates(updates).Error; err != nil {
		tx.Rollback()
		if database.IsUniqueViolation(err) {
			return models.Category{}, ErrCategoryExists
		}
		return models.Category{}, err
	}

	event, err := models.NewEvent(
		string(broker.CategoryUpdated),
		"category",
		category.Name,
		map[string]interface{}{
			"category_id": category.ID,
			"user_id":     category.UserID,
			"name":        category.Name,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Category{}, err
	}

	broker.PublishEvent(db, broker.CategorySubject, event)

	return category, nil
}

// ListCategories returns every category owned by the user, each with the
// number of tasks attached to it (any status), ordered by name.
func (s *CategoryService) ListCategories(db *database.Database, userID uint) ([]models.CategoryWithCount, error) {
	var categories []models.Category
	if err := db.DB.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	type categoryCount struct {
		CategoryID uint
		Count      int64
	}
	var counts []categoryCount
	err := db.DB.Model(&models.Task{}).
		Select("category_id, COUNT(*) AS count").
		Where("user_id = ? AND category_id IS NOT NULL", userID).
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	countByID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByID[c.CategoryID] = c.Count
	}

	result := make([]models.CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		result = append(result, models.CategoryWithCount{
			Category:   category,
			TasksCount: countByID[category.ID],
		})
	}
	return result, nil
}

// DeleteCategory detaches the user's tasks from the category and removes it,
// in a single transaction so no task is left referencing a deleted category.
func (s *CategoryService) DeleteCategory(db *database.Database, userID, categoryID uint) error {
	category, err := s.GetCategoryIfOwned(db, categoryID, userID)
	if err != nil {
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	err = tx.Model(&models.Task{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Update("category_id", nil).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.CategoryDeleted),
		"category",
		category.Name,
		map[string]interface{}{
			"category_id": category.ID,
			"user_id":     category.UserID,
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

	broker.PublishEvent(db, broker.CategorySubject, event)

	return nil
}

var CategoryServiceInstance CategoryServiceInterface = &CategoryService{}

package database

import (
	"gorm.io/gorm"

	"taskhub/taskhub/models"
)

// RunMigrations brings the schema up to date for all persisted models.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.Event{},
	)
}

package testutils

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhub/taskhub/database"
)

var testDBCounter int64

// SetupTestDB opens a private in-memory sqlite database with the full schema
// migrated, for behavioral service tests that exercise real queries.
func SetupTestDB() (*database.Database, func()) {
	// A unique DSN per call keeps parallel tests isolated.
	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:taskhub_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if err := database.RunMigrations(db); err != nil {
		panic(err)
	}

	testDB := &database.Database{DB: db}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return testDB, cleanup
}

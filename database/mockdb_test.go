package database_test

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/taskhub/models"
	"taskhub/taskhub/testutils"
)

// Verifies the SQL actually sent for an owner-scoped task query.
func TestTaskQueryIsScopedByUser(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "title", "user_id", "status", "priority"}).
		AddRow(1, "Test Task", 1, "pending", "medium")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tasks" WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnRows(rows)

	var tasks []models.Task
	err := db.DB.Where("user_id = ?", 1).Find(&tasks).Error
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Test Task", tasks[0].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

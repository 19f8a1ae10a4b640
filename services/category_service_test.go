package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/taskhub/models"
	"taskhub/taskhub/testutils"
)

func TestCreateCategory_Success(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, "Work", "day job")
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Work", category.Name)
	assert.Equal(t, user.ID, category.UserID)
}

func TestCreateCategory_DuplicateNameSameUser(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}

	_, err := categoryService.CreateCategory(db, user.ID, "Work", "")
	require.NoError(t, err)

	_, err = categoryService.CreateCategory(db, user.ID, "Work", "again")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCreateCategory_SameNameDifferentUsers(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	alice := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw12345678")
	categoryService := &CategoryService{}

	_, err := categoryService.CreateCategory(db, alice.ID, "Work", "")
	require.NoError(t, err)

	_, err = categoryService.CreateCategory(db, bob.ID, "Work", "")
	assert.NoError(t, err)
}

func TestUpdateCategory_NotOwned(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	alice := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, alice.ID, "Work", "")
	require.NoError(t, err)

	// Another user's category is indistinguishable from a missing one.
	_, err = categoryService.UpdateCategory(db, bob.ID, category.ID, strPtr("Stolen"), nil)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateCategory_Success(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, "Work", "old")
	require.NoError(t, err)

	updated, err := categoryService.UpdateCategory(db, user.ID, category.ID, strPtr("Office"), strPtr("new"))
	require.NoError(t, err)
	assert.Equal(t, "Office", updated.Name)
	assert.Equal(t, "new", updated.Description)
}

func TestUpdateCategory_DescriptionOnly(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, "Work", "old description")
	require.NoError(t, err)

	// Omitting the name skips the uniqueness check entirely, so the
	// description can change without renaming the category.
	updated, err := categoryService.UpdateCategory(db, user.ID, category.ID, nil, strPtr("new description"))
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	assert.Equal(t, "new description", updated.Description)
}

func TestUpdateCategory_NoFieldsIsNoop(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, "Work", "desc")
	require.NoError(t, err)

	updated, err := categoryService.UpdateCategory(db, user.ID, category.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	assert.Equal(t, "desc", updated.Description)
}

func TestUpdateCategory_RenameToSameNameConflicts(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, "Work", "")
	require.NoError(t, err)

	// The duplicate-name check does not exclude the category being renamed,
	// so resubmitting the current name reports a conflict.
	_, err = categoryService.UpdateCategory(db, user.ID, category.ID, strPtr("Work"), nil)
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestListCategories_CountsAndOrder(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}
	taskService := &TaskService{}

	work, err := categoryService.CreateCategory(db, user.ID, "Work", "")
	require.NoError(t, err)
	_, err = categoryService.CreateCategory(db, user.ID, "Errands", "")
	require.NoError(t, err)

	for _, title := range []string{"one", "two", "three"} {
		_, err := taskService.CreateTask(db, user.ID, TaskCreateInput{Title: title, CategoryID: &work.ID})
		require.NoError(t, err)
	}

	// Completed tasks still count toward their category.
	tasks, _, err := taskService.ListTasks(db, user.ID, TaskListParams{
		Limit: 1, Status: "all", SortBy: "created_at", SortOrder: "asc",
	})
	require.NoError(t, err)
	_, err = taskService.MarkTaskCompleted(db, user.ID, tasks[0].ID)
	require.NoError(t, err)

	result, err := categoryService.ListCategories(db, user.ID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Errands", result[0].Name)
	assert.Equal(t, int64(0), result[0].TasksCount)
	assert.Equal(t, "Work", result[1].Name)
	assert.Equal(t, int64(3), result[1].TasksCount)
}

func TestListCategories_ScopedToUser(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	alice := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw12345678")
	categoryService := &CategoryService{}

	_, err := categoryService.CreateCategory(db, alice.ID, "Work", "")
	require.NoError(t, err)

	result, err := categoryService.ListCategories(db, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestDeleteCategory_DetachesTasks(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	user := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	categoryService := &CategoryService{}
	taskService := &TaskService{}

	category, err := categoryService.CreateCategory(db, user.ID, "Work", "")
	require.NoError(t, err)

	var taskIDs []uint
	for _, title := range []string{"a", "b", "c"} {
		task, err := taskService.CreateTask(db, user.ID, TaskCreateInput{Title: title, CategoryID: &category.ID})
		require.NoError(t, err)
		taskIDs = append(taskIDs, task.ID)
	}

	require.NoError(t, categoryService.DeleteCategory(db, user.ID, category.ID))

	_, err = categoryService.GetCategoryIfOwned(db, category.ID, user.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	for _, id := range taskIDs {
		task, err := taskService.GetTaskById(db, user.ID, id)
		require.NoError(t, err)
		assert.Nil(t, task.CategoryID)
	}
}

func TestDeleteCategory_NotOwned(t *testing.T) {
	db, cleanup := testutils.SetupTestDB()
	defer cleanup()

	alice := createTestUser(t, db, "alice", "alice@example.com", "pw12345678")
	bob := createTestUser(t, db, "bob", "bob@example.com", "pw12345678")
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, alice.ID, "Work", "")
	require.NoError(t, err)

	err = categoryService.DeleteCategory(db, bob.ID, category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	// Alice's category is untouched.
	var count int64
	require.NoError(t, db.DB.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

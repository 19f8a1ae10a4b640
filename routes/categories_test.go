package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
	"taskhub/taskhub/services"
)

type MockCategoryService struct{}

func (m *MockCategoryService) CreateCategory(db *database.Database, userID uint, name, description string) (models.Category, error) {
	if name == "Work" {
		return models.Category{}, services.ErrCategoryExists
	}
	return models.Category{ID: 1, Name: name, Description: description, UserID: userID}, nil
}

func (m *MockCategoryService) UpdateCategory(db *database.Database, userID, categoryID uint, name, description *string) (models.Category, error) {
	if categoryID != 1 {
		return models.Category{}, services.ErrCategoryNotFound
	}
	category := models.Category{ID: categoryID, Name: "Work", UserID: userID}
	if name != nil {
		if *name == "Work" {
			return models.Category{}, services.ErrCategoryExists
		}
		category.Name = *name
	}
	if description != nil {
		category.Description = *description
	}
	return category, nil
}

func (m *MockCategoryService) ListCategories(db *database.Database, userID uint) ([]models.CategoryWithCount, error) {
	return []models.CategoryWithCount{
		{Category: models.Category{ID: 2, Name: "Errands", UserID: userID}, TasksCount: 0},
		{Category: models.Category{ID: 1, Name: "Work", UserID: userID}, TasksCount: 3},
	}, nil
}

func (m *MockCategoryService) DeleteCategory(db *database.Database, userID, categoryID uint) error {
	if categoryID != 1 {
		return services.ErrCategoryNotFound
	}
	return nil
}

func (m *MockCategoryService) GetCategoryIfOwned(db *database.Database, categoryID, userID uint) (models.Category, error) {
	if categoryID == 1 {
		return models.Category{ID: 1, Name: "Work", UserID: userID}, nil
	}
	return models.Category{}, services.ErrCategoryNotFound
}

func setupCategoryRouter() *gin.Engine {
	router := gin.New()
	RegisterCategoryRoutes(router, &database.Database{}, &MockCategoryService{}, &MockAuthService{})
	return router
}

func TestGetCategoriesRoute(t *testing.T) {
	router := setupCategoryRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/v1/categories", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Errands")
	assert.Contains(t, w.Body.String(), `"tasks_count":3`)
}

func TestCreateCategoryRoute(t *testing.T) {
	router := setupCategoryRouter()

	t.Run("Created", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/categories", []byte(`{"name":"Errands"}`)))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Errands")
	})

	t.Run("Name Too Short", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/categories", []byte(`{"name":"ab"}`)))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/categories", []byte(`{"name":"Work"}`)))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateCategoryRoute(t *testing.T) {
	router := setupCategoryRouter()

	t.Run("Updated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/categories/1", []byte(`{"name":"Office"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Office")
	})

	t.Run("Description Only", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/categories/1", []byte(`{"description":"updated"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "updated")
		assert.Contains(t, w.Body.String(), "Work")
	})

	t.Run("Not Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/categories/42", []byte(`{"name":"Office"}`)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/categories/1", []byte(`{"name":"Work"}`)))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Invalid Id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/categories/abc", []byte(`{"name":"Office"}`)))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestDeleteCategoryRoute(t *testing.T) {
	router := setupCategoryRouter()

	t.Run("Deleted", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("DELETE", "/api/v1/categories/1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("DELETE", "/api/v1/categories/42", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCategoryRoutesRequireAuth(t *testing.T) {
	router := setupCategoryRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/categories", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

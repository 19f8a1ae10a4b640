package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taskhub/taskhub/database"
)

func setupUserRouter() *gin.Engine {
	router := gin.New()
	RegisterUserRoutes(router, &database.Database{}, &MockUserService{}, &MockAuthService{})
	return router
}

func TestGetCurrentUserRoute(t *testing.T) {
	router := setupUserRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest("GET", "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUpdateCurrentUserRoute(t *testing.T) {
	router := setupUserRouter()

	t.Run("Updated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/users/me", []byte(`{"first_name":"Alice","last_name":"Smith"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Smith")
	})

	t.Run("Invalid Email", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/users/me", []byte(`{"email":"not-an-email"}`)))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Email Taken", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("PUT", "/api/v1/users/me", []byte(`{"email":"taken@example.com"}`)))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestChangePasswordRoute(t *testing.T) {
	router := setupUserRouter()

	t.Run("Changed", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := []byte(`{"current_password":"pw12345678","new_password":"newpw123456"}`)
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/users/me/change-password", body))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong Current Password", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := []byte(`{"current_password":"wrong-password","new_password":"newpw123456"}`)
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/users/me/change-password", body))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Short New Password", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := []byte(`{"current_password":"pw12345678","new_password":"short"}`)
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/users/me/change-password", body))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("No Token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/users/me", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

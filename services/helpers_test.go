package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"taskhub/taskhub/config"
	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:              "test-secret",
		AccessTokenExpireMins:  30,
		RefreshTokenExpireDays: 7,
	}
}

func newTestServices() (*AuthService, *UserService) {
	authService := NewAuthService(testConfig())
	return authService, NewUserService(authService)
}

func strPtr(s string) *string {
	return &s
}

func createTestUser(t *testing.T, db *database.Database, username, email, password string) models.User {
	t.Helper()
	_, userService := newTestServices()
	user, err := userService.Register(db, RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

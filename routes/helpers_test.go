package routes

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskhub/taskhub/database"
	"taskhub/taskhub/services"
	"taskhub/taskhub/utils/token"
)

const (
	testAccessToken  = "valid-access-token"
	testRefreshToken = "valid-refresh-token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAuthService recognizes two fixed token strings so route tests can
// exercise the auth middleware without real JWTs.
type MockAuthService struct{}

func (m *MockAuthService) Login(db *database.Database, email, password string) (services.TokenPair, error) {
	if email == "alice@example.com" && password == "pw12345678" {
		return services.TokenPair{
			AccessToken:  testAccessToken,
			RefreshToken: testRefreshToken,
			TokenType:    "bearer",
		}, nil
	}
	return services.TokenPair{}, services.ErrInvalidCredentials
}

func (m *MockAuthService) RefreshAccessToken(db *database.Database, refreshToken string) (string, error) {
	switch refreshToken {
	case testRefreshToken:
		return "refreshed-access-token", nil
	case testAccessToken:
		return "", services.ErrInvalidTokenType
	default:
		return "", services.ErrInvalidToken
	}
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	switch tokenString {
	case testAccessToken:
		return &services.JWTClaims{
			UserID:    1,
			Username:  "alice",
			TokenType: token.TypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "alice@example.com",
			},
		}, nil
	case testRefreshToken:
		return &services.JWTClaims{
			UserID:    1,
			TokenType: token.TypeRefresh,
		}, nil
	default:
		return nil, services.ErrInvalidToken
	}
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return services.ErrIncorrectPassword
}

func authedRequest(method, url string, body []byte) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+testAccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func jsonRequest(method, url string, body []byte) *http.Request {
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

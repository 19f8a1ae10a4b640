package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskhub/taskhub/config"
	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
	"taskhub/taskhub/utils/token"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

// TokenPair is the login result: a short-lived access token plus a
// long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthServiceInterface interface {
	Login(db *database.Database, email, password string) (TokenPair, error)
	RefreshAccessToken(db *database.Database, refreshToken string) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	jwtSecret     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(cfg config.Config) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(cfg.JWTSecret),
		accessExpiry:  time.Duration(cfg.AccessTokenExpireMins) * time.Minute,
		refreshExpiry: time.Duration(cfg.RefreshTokenExpireDays) * 24 * time.Hour,
	}
}

// Login authenticates a user by email and password and issues both tokens.
// A wrong email and a wrong password are deliberately indistinguishable.
func (s *AuthService) Login(db *database.Database, email, password string) (TokenPair, error) {
	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return TokenPair{}, ErrInactiveUser
	}

	accessToken, err := token.GenerateAccessToken(user.ID, user.Email, user.Username, s.jwtSecret, s.accessExpiry)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := token.GenerateRefreshToken(user.ID, user.Email, s.jwtSecret, s.refreshExpiry)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
// The validation pipeline is linear; any failure is terminal and reported as
// an authentication failure.
func (s *AuthService) RefreshAccessToken(db *database.Database, refreshToken string) (string, error) {
	claims, err := token.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims.TokenType != token.TypeRefresh {
		return "", ErrInvalidTokenType
	}

	if claims.UserID == 0 {
		return "", ErrInvalidTokenPayload
	}

	var user models.User
	if err := db.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return "", ErrUserNotFound
	}

	if !user.IsActive {
		return "", ErrInactiveUser
	}

	return token.GenerateAccessToken(user.ID, user.Email, user.Username, s.jwtSecret, s.accessExpiry)
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateToken(tokenString, s.jwtSecret)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var AuthServiceInstance AuthServiceInterface

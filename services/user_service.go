package services

import (
	"errors"

	"gorm.io/gorm"

	"taskhub/taskhub/broker"
	"taskhub/taskhub/database"
	"taskhub/taskhub/models"
)

// RegisterInput carries the registration payload into the service.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UserServiceInterface interface {
	Register(db *database.Database, input RegisterInput) (models.User, error)
	GetUserById(db *database.Database, id uint) (models.User, error)
	UpdateProfile(db *database.Database, userID uint, updatedData map[string]interface{}) (models.User, error)
	ChangePassword(db *database.Database, userID uint, currentPassword, newPassword string) (models.User, error)
}

type UserService struct {
	authService AuthServiceInterface
}

func NewUserService(authService AuthServiceInterface) *UserService {
	return &UserService{authService: authService}
}

// Register creates a new account. Email uniqueness is checked before
// username, so when both collide the email conflict is reported. The unique
// indexes remain authoritative under concurrent registration.
func (s *UserService) Register(db *database.Database, input RegisterInput) (models.User, error) {
	var existing models.User
	if err := db.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	if err := db.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	passwordHash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		IsSuperuser:  false,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if database.IsUniqueViolation(err) {
			return models.User{}, s.classifyUserConflict(db, input)
		}
		return models.User{}, err
	}

	event, err := models.NewEvent(
		string(broker.UserCreated),
		"user",
		user.Email,
		map[string]interface{}{
			"user_id":  user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	broker.PublishEvent(db, broker.UserSubject, event)

	return user, nil
}

// classifyUserConflict decides which of the two unique constraints fired
// when a concurrent registration slipped past the pre-checks.
func (s *UserService) classifyUserConflict(db *database.Database, input RegisterInput) error {
	var existing models.User
	if err := db.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

func (s *UserService) GetUserById(db *database.Database, id uint) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile applies a partial update of email, first_name and last_name.
// A changed email is re-checked for uniqueness against other users.
func (s *UserService) UpdateProfile(db *database.Database, userID uint, updatedData map[string]interface{}) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	updates := make(map[string]interface{})

	if email, ok := updatedData["email"].(string); ok && email != "" {
		if email != user.Email {
			var existing models.User
			err := db.DB.Where("email = ? AND id <> ?", email, user.ID).First(&existing).Error
			if err == nil {
				return models.User{}, ErrEmailTaken
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return models.User{}, err
			}
			updates["email"] = email
		}
	}

	if firstName, ok := updatedData["first_name"].(string); ok {
		updates["first_name"] = firstName
	}
	if lastName, ok := updatedData["last_name"].(string); ok {
		updates["last_name"] = lastName
	}

	if len(updates) == 0 {
		return user, nil
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	if err := tx.Model(&user).Updates(updates).Error; err != nil {
		tx.Rollback()
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}

	event, err := models.NewEvent(
		string(broker.UserUpdated),
		"user",
		user.Email,
		map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	broker.PublishEvent(db, broker.UserSubject, event)

	return user, nil
}

// ChangePassword re-verifies the current password before swapping the hash.
func (s *UserService) ChangePassword(db *database.Database, userID uint, currentPassword, newPassword string) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if err := s.authService.ComparePasswords(user.PasswordHash, currentPassword); err != nil {
		return models.User{}, ErrIncorrectPassword
	}

	newHash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return models.User{}, err
	}

	if err := db.DB.Model(&user).Update("password_hash", newHash).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

var UserServiceInstance UserServiceInterface

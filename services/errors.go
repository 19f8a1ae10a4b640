package services

import "errors"

// Common errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")

	ErrEmailTaken     = errors.New("email already registered")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrCategoryExists = errors.New("category with same name already exists")

	// ErrCategoryNotOwned is a bad-reference error: the caller supplied a
	// category_id that does not exist or belongs to someone else. Reported as
	// invalid input, unlike ErrCategoryNotFound which is a lookup miss.
	ErrCategoryNotOwned = errors.New("category doesn't exist or doesn't belong to the user")

	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrInactiveUser        = errors.New("inactive user")
	ErrIncorrectPassword   = errors.New("incorrect current password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidTokenType    = errors.New("invalid token type")
	ErrInvalidTokenPayload = errors.New("invalid token payload")

	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation error")
	ErrInternal     = errors.New("internal server error")
)

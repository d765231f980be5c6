package user

import (
	"errors"
	"regexp"
	"strings"
)

type User struct {
	ID           int64  `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never expose hash in JSON
	RoleID       int64  `json:"role_id"`
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrBlankName          = errors.New("first name and last name cannot be empty")
	// setting the admin role is not something any caller can do through the API
	ErrRoleEscalation = errors.New("cannot assign admin role")
	ErrRoleNotFound   = errors.New("role not found")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,max=255"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the admin insert payload; RoleID defaults to the User role.
type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,max=255"`
	Password  string `json:"password" binding:"required"`
	RoleID    *int64 `json:"role_id" binding:"omitempty,min=1"`
}

// a full update payload; the password is always re-hashed.
type UpdateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,max=255"`
	Password  string `json:"password" binding:"required"`
	RoleID    *int64 `json:"role_id" binding:"omitempty,min=1"`
}

// Normalize trims names and lower-cases the email.
func Normalize(first, last, email string) (string, string, string) {
	return strings.TrimSpace(first), strings.TrimSpace(last), strings.ToLower(strings.TrimSpace(email))
}

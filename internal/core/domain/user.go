package domain

import (
	"errors"
	"time"
)

// Role is a user's capability level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// User models an account that can authenticate against the API.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserView is the sanitized shape of a user returned to clients.
type UserView struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Role  Role    `json:"role"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Identity is the authenticated caller resolved for a single request.
type Identity struct {
	ID    string
	Email string
	Name  *string
	Role  Role
}

// View is the client-facing shape of the caller.
func (i Identity) View() UserView {
	return UserView{ID: i.ID, Email: i.Email, Name: i.Name, Role: i.Role}
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

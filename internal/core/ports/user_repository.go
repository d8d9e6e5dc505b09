package ports

import (
	"context"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no user matches exactly.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

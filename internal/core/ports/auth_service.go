package ports

import (
	"context"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     *string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User  domain.UserView `json:"user"`
	Token string          `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}

// TokenIssuer signs bearer credentials for a subject (user id).
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// TokenVerifier checks a bearer credential. ok is false for any malformed,
// tampered or expired token.
type TokenVerifier interface {
	Verify(token string) (subject string, ok bool)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

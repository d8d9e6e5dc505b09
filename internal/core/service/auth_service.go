package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72
)

// fallbackDecoyHash is a valid cost-10 bcrypt hash, used when the decoy
// cannot be generated at startup.
const fallbackDecoyHash = "$2a$10$k1wbIrmNyFAPwPVPSVa/zecw2BCEnBwVS2GbrmgzxFUOqW9dk4TCW"

// AuthService implements registration and login.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger

	// decoyHash is compared against when the email is unknown so both
	// login failure paths cost one hash comparison.
	decoyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Warn().Err(err).Msg("generate decoy hash, using built-in fallback")
		decoy = fallbackDecoyHash
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger, decoyHash: decoy}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = s.hasher.Compare(s.decoyHash, input.Password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if s.hasher.Compare(user.PasswordHash, input.Password) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user.View(), Token: token}, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return domain.NewValidationError("email", "Invalid email address")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError("email", "Invalid email address")
	}
	if len(password) < minPasswordLength {
		return domain.NewValidationError("password", "Password must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return domain.NewValidationError("password", "Password must be at most 72 bytes")
	}
	return nil
}

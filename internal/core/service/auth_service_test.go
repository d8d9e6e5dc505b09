package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

func newAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, NewBcryptHasher(4), stubTokens{}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: "test@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, res.User.Role)
	require.Equal(t, "token-"+res.User.ID, res.Token)

	stored := repo.users[res.User.ID]
	require.NotEqual(t, "password123", stored.PasswordHash)
	require.NoError(t, NewBcryptHasher(4).Compare(stored.PasswordHash, "password123"))

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	require.NotContains(t, strings.ToLower(string(raw)), "password")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, ports.RegisterInput{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	hash := repo.users[first.User.ID].PasswordHash

	_, err = svc.Register(ctx, ports.RegisterInput{Email: "a@example.com", Password: "other-pass"})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	require.Len(t, repo.users, 1)
	require.Equal(t, hash, repo.users[first.User.ID].PasswordHash)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	tests := []struct {
		name  string
		input ports.RegisterInput
		msg   string
	}{
		{"bad email", ports.RegisterInput{Email: "nope", Password: "secret1"}, "Invalid email address"},
		{"short password", ports.RegisterInput{Email: "a@b.co", Password: "123"}, "Password must be at least 6 characters"},
		{"password past bcrypt limit", ports.RegisterInput{Email: "a@b.co", Password: strings.Repeat("p", 80)}, "Password must be at most 72 bytes"},
		{"multibyte password past bcrypt limit", ports.RegisterInput{Email: "a@b.co", Password: strings.Repeat("é", 40)}, "Password must be at most 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.msg, ve.Message)
		})
	}
}

func TestAuthService_Register_PasswordAtLimit(t *testing.T) {
	svc := newAuthService(newStubUserRepo())
	pw := strings.Repeat("p", 72)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "long@example.com", Password: pw})
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), ports.LoginInput{Email: "long@example.com", Password: pw})
	require.NoError(t, err)
}

// brokenHasher fails to hash and records what Compare was asked to check.
type brokenHasher struct {
	compared []string
}

func (h *brokenHasher) Hash(string) (string, error) { return "", errors.New("entropy unavailable") }

func (h *brokenHasher) Compare(hash, _ string) error {
	h.compared = append(h.compared, hash)
	return errors.New("mismatch")
}

func TestAuthService_DecoyFallsBackWhenHashFails(t *testing.T) {
	hasher := &brokenHasher{}
	svc := NewAuthService(newStubUserRepo(), hasher, stubTokens{}, zerolog.Nop())

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	require.Equal(t, []string{fallbackDecoyHash}, hasher.compared)
	cost, err := bcrypt.Cost([]byte(fallbackDecoyHash))
	require.NoError(t, err)
	require.Equal(t, 10, cost)
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, ports.LoginInput{Email: "bob@example.com", Password: "hunter22"})
		require.NoError(t, err)
		require.Equal(t, reg.User.ID, res.User.ID)
		require.NotEmpty(t, res.Token)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, errWrong := svc.Login(ctx, ports.LoginInput{Email: "bob@example.com", Password: "nope-nope"})
		_, errUnknown := svc.Login(ctx, ports.LoginInput{Email: "ghost@example.com", Password: "hunter22"})
		require.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
		require.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("email match is case sensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, ports.LoginInput{Email: "BOB@example.com", Password: "hunter22"})
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("store fault is not masked", func(t *testing.T) {
		repo.findErr = errStore
		defer func() { repo.findErr = nil }()
		_, err := svc.Login(ctx, ports.LoginInput{Email: "bob@example.com", Password: "hunter22"})
		require.True(t, errors.Is(err, errStore))
	})
}

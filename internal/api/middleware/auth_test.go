package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/core/domain"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (string, bool) {
	sub, ok := s[token]
	return sub, ok
}

type stubUsers struct {
	users map[string]*domain.User
	err   error
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func TestAuth(t *testing.T) {
	tokens := stubVerifier{"good": "u1", "orphan": "u-deleted"}
	users := &stubUsers{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "alice@example.com", Role: domain.RoleUser},
	}}

	tests := []struct {
		name    string
		header  string
		users   *stubUsers
		code    int
		message string
	}{
		{"missing header", "", users, http.StatusUnauthorized, msgNoToken},
		{"wrong scheme", "Token good", users, http.StatusUnauthorized, msgNoToken},
		{"scheme only", "Bearer", users, http.StatusUnauthorized, msgNoToken},
		{"scheme any case", "BEARER orphan", users, http.StatusUnauthorized, msgUserNotFound},
		{"scheme prefix only", "Bearerx good", users, http.StatusUnauthorized, msgNoToken},
		{"invalid token", "Bearer not-a-token", users, http.StatusUnauthorized, msgInvalidToken},
		{"empty token", "Bearer ", users, http.StatusUnauthorized, msgInvalidToken},
		{"subject deleted", "Bearer orphan", users, http.StatusUnauthorized, msgUserNotFound},
		{"store failure", "Bearer good", &stubUsers{err: errors.New("db down")}, http.StatusInternalServerError, msgAuthFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			h := Auth(tokens, tt.users, zerolog.Nop())(func(echo.Context) error {
				t.Fatal("next must not run")
				return nil
			})

			var he *echo.HTTPError
			require.ErrorAs(t, h(c), &he)
			require.Equal(t, tt.code, he.Code)
			require.Equal(t, tt.message, he.Message)
		})
	}
}

func TestAuth_AttachesIdentity(t *testing.T) {
	name := "Alice"
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	users := &stubUsers{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "alice@example.com", Name: &name, Role: domain.RoleAdmin},
	}}

	var got domain.Identity
	h := Auth(stubVerifier{"good": "u1"}, users, zerolog.Nop())(handler.WithIdentity(func(c echo.Context, id domain.Identity) error {
		got = id
		return c.NoContent(http.StatusOK)
	}))

	require.NoError(t, h(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.Identity{ID: "u1", Email: "alice@example.com", Name: &name, Role: domain.RoleAdmin}, got)
}

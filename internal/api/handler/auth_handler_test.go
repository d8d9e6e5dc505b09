package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()
	var env struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Envelope
}

func TestAuthHandler_Register_Success(t *testing.T) {
	name := "Alice"
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			require.Equal(t, "alice@example.com", in.Email)
			require.Equal(t, "secret1", in.Password)
			require.Equal(t, &name, in.Name)
			return &ports.AuthResult{
				User:  domain.UserView{ID: "u1", Email: in.Email, Name: in.Name, Role: domain.RoleUser},
				Token: "tok",
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/api/auth/register", `{"email":"alice@example.com","password":"secret1","name":"Alice"}`)

	require.NoError(t, NewAuthHandler(stub).Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res ports.AuthResult
	env := decodeEnvelope(t, rec, &res)
	require.True(t, env.Success)
	require.Equal(t, "User registered successfully", env.Message)
	require.Equal(t, "tok", res.Token)
	require.Equal(t, domain.RoleUser, res.User.Role)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"bad email", `{"email":"nope","password":"secret1"}`, "Invalid email address"},
		{"short password", `{"email":"a@b.co","password":"123"}`, "Password must be at least 6 characters"},
		{"missing password", `{"email":"a@b.co"}`, "Password is required"},
		{"password over bcrypt limit", `{"email":"a@b.co","password":"` + strings.Repeat("p", 73) + `"}`, "Password must be at most 72 bytes"},
		{"multibyte password over limit", `{"email":"a@b.co","password":"` + strings.Repeat("é", 40) + `"}`, "Password must be at most 72 bytes"},
		{"malformed json", `{"email":`, "Invalid request body"},
		{"wrong type", `{"email":42,"password":"secret1"}`, "email must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/api/auth/register", tt.body)
			err := NewAuthHandler(stub).Register(c)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.msg, ve.Message)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
			if in.Password != "right-pass" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.AuthResult{User: domain.UserView{ID: "u1", Email: in.Email, Role: domain.RoleAdmin}, Token: "tok"}, nil
		},
	}

	c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"email":"admin@sweetify.com","password":"right-pass"}`)
	require.NoError(t, NewAuthHandler(stub).Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	require.Equal(t, "Login successful", env.Message)

	c, _ = newTestContext(http.MethodPost, "/api/auth/login", `{"email":"admin@sweetify.com","password":"wrong"}`)
	require.ErrorIs(t, NewAuthHandler(stub).Login(c), domain.ErrInvalidCredentials)
}

func TestAuthHandler_Me(t *testing.T) {
	name := "Alice"
	c, rec := newTestContext(http.MethodGet, "/api/auth/me", "")

	err := NewAuthHandler(&stubAuthService{}).Me(c, domain.Identity{ID: "u1", Email: "alice@example.com", Name: &name, Role: domain.RoleUser})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var view domain.UserView
	env := decodeEnvelope(t, rec, &view)
	require.True(t, env.Success)
	require.Equal(t, domain.UserView{ID: "u1", Email: "alice@example.com", Name: &name, Role: domain.RoleUser}, view)
}

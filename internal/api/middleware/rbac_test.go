package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/core/domain"
)

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name     string
		identity *domain.Identity
		wantCode int
	}{
		{"admin passes", &domain.Identity{ID: "a", Role: domain.RoleAdmin}, http.StatusOK},
		{"user is forbidden", &domain.Identity{ID: "u", Role: domain.RoleUser}, http.StatusForbidden},
		{"no identity is forbidden", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
			if tt.identity != nil {
				c.Set(handler.IdentityKey, *tt.identity)
			}

			called := false
			err := AdminOnly()(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)

			if tt.wantCode == http.StatusOK {
				require.NoError(t, err)
				require.True(t, called)
				return
			}
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			require.Equal(t, tt.wantCode, he.Code)
			require.Equal(t, msgAdminOnly, he.Message)
			require.False(t, called)
		})
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token."
	msgUserNotFound = "User not found."
	msgAuthFailure  = "Authentication error."
)

type userFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth verifies the bearer token and re-reads the user on every request, so
// a deleted account stops authenticating even while its token is unexpired.
// On success the caller's domain.Identity is stored under handler.IdentityKey.
func Auth(tokens ports.TokenVerifier, users userFinder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
			}

			subject, ok := tokens.Verify(strings.TrimSpace(parts[1]))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}

			user, err := users.FindByID(c.Request().Context(), subject)
			if errors.Is(err, domain.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUserNotFound)
			}
			if err != nil {
				log.Error().Err(err).Str("user_id", subject).Msg("resolve token subject")
				return echo.NewHTTPError(http.StatusInternalServerError, msgAuthFailure)
			}

			c.Set(handler.IdentityKey, domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role})
			return next(c)
		}
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// IdentityKey is the echo.Context key under which the auth middleware stores
// the caller's domain.Identity.
const IdentityKey = "identity"

// IdentityHandler is a route handler that receives the authenticated caller
// as an explicit argument.
type IdentityHandler func(c echo.Context, id domain.Identity) error

// WithIdentity adapts an IdentityHandler to echo. Routes using it must sit
// behind the auth middleware; a missing identity is rejected with 401.
func WithIdentity(h IdentityHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.")
		}
		return h(c, id)
	}
}

func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(domain.Identity)
	return id, ok
}

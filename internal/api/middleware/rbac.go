package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/core/domain"
)

const msgAdminOnly = "Access denied. Admin privileges required."

// RequireRole admits callers whose identity holds one of allowedRoles. It
// must run after Auth; a request without an identity is rejected too.
func RequireRole(message string, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := handler.IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, message)
			}
			if _, ok := allowed[id.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, message)
			}
			return next(c)
		}
	}
}

// AdminOnly is the gate for catalog deletion and restocking.
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(msgAdminOnly, domain.RoleAdmin)
}

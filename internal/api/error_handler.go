package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/core/domain"
)

const msgEndpointNotFound = "Endpoint not found"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the {"success": false, "error": "<message>"} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.Envelope{Success: false, Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Sweet not found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusBadRequest, "Insufficient stock"
	case errors.Is(err, domain.ErrStockLimit):
		return http.StatusBadRequest, "Restock would exceed the maximum stock"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, "User with this email already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict, "Duplicate purchase request"
	}

	// Echo's own errors: router misses, middleware rejections, body limits.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			return http.StatusNotFound, msgEndpointNotFound
		case he.Code >= http.StatusInternalServerError:
			if he.Internal != nil {
				logUnhandled(log, c, he.Internal)
			}
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "Internal server error"
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

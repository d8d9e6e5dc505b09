package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetify/sweets-api/internal/api/metrics"
	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,maxbytes=72"`
	Name     *string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a USER account and returns it with a token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  Envelope{data=ports.AuthResult}
// @Failure      400   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, res, "User registered successfully")
}

// Login exchanges credentials for a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=ports.AuthResult}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{Email: req.Email, Password: req.Password})
	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res, "Login successful")
}

// Me returns the identity resolved from the bearer token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=domain.UserView}
// @Failure      401  {object}  Envelope
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context, id domain.Identity) error {
	return respond(c, http.StatusOK, id.View(), "")
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sweetify/sweets-api/docs"
	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/api/middleware"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

const bodyLimit = "1M"

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth   ports.AuthService
	Sweets ports.SweetService
	Tokens ports.TokenVerifier
	Users  ports.UserRepository
	// Checks are pinged by the readiness probe.
	Checks map[string]handler.Check
	Logger zerolog.Logger
	// Registry receives HTTP metrics. Nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "sweetify",
		Registerer: registerer,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	sweetHandler := handler.NewSweetHandler(deps.Sweets, deps.Logger)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	authenticate := middleware.Auth(deps.Tokens, deps.Users, deps.Logger)
	adminOnly := middleware.AdminOnly()

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", handler.WithIdentity(authHandler.Me), authenticate)

	// --- Catalog ---
	sweets := e.Group("/api/sweets")
	sweets.GET("", sweetHandler.List)
	sweets.GET("/search", sweetHandler.Search, authenticate)
	sweets.GET("/:id", sweetHandler.Get, authenticate)
	sweets.POST("", handler.WithIdentity(sweetHandler.Create), authenticate)
	sweets.PUT("/:id", sweetHandler.Update, authenticate)
	sweets.DELETE("/:id", handler.WithIdentity(sweetHandler.Delete), authenticate, adminOnly)

	// --- Inventory ---
	sweets.POST("/:id/purchase", sweetHandler.Purchase, authenticate)
	sweets.POST("/:id/restock", handler.WithIdentity(sweetHandler.Restock), authenticate, adminOnly)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

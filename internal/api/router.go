package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/msk-clinic/clinic-portal/internal/api/handler"
	"github.com/msk-clinic/clinic-portal/internal/api/middleware"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Log          zerolog.Logger
	JWTSecret    string
	AuthService  ports.AuthService
	UserService  ports.UserService
	ResetService ports.PasswordResetService
	QuoteService ports.QuoteService
	// ReadinessChecks are run by GET /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("clinic"))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.ResetService, deps.Log)
	userHandler := handler.NewUserHandler(deps.UserService)
	quoteHandler := handler.NewQuoteHandler(deps.QuoteService)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.ReadinessChecks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)

	// User management is gated by the user policy inside the service.
	v1.GET("/me", userHandler.Me)
	v1.GET("/users", userHandler.List)
	v1.POST("/users", userHandler.Create)
	v1.GET("/users/:id", userHandler.Get)
	v1.PUT("/users/:id", userHandler.Update)
	v1.DELETE("/users/:id", userHandler.Delete)
	v1.GET("/stats", userHandler.Stats)

	quotes := v1.Group("/quotes", middleware.RBAC(middleware.StaffRoles()...))
	quotes.POST("", quoteHandler.Create)
	quotes.GET("/:id", quoteHandler.Get)
	quotes.GET("/:id/document", quoteHandler.Document)
	quotes.POST("/:id/document/archive", quoteHandler.Archive,
		middleware.RBAC(domain.RoleAdmin, domain.RoleSuperviseur))

	return e
}

// requestLogger writes one structured access log entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
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

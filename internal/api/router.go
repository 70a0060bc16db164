package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/carvalue/marketplace-api/docs"
	"github.com/carvalue/marketplace-api/internal/api/handler"
	"github.com/carvalue/marketplace-api/internal/api/middleware"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Reports ports.ReportService
	Reviews ports.ReviewService

	// HealthChecks are probed by /health/ready.
	HealthChecks []handler.Check

	// Registry receives the HTTP metrics. Defaults to the global registry.
	Registry *prometheus.Registry

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "marketplace",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.Authenticate(d.Auth))

	authHandler := handler.NewAuthHandler(d.Auth, d.Users)
	userHandler := handler.NewUserHandler(d.Users, d.Reports, d.Reviews)
	reportHandler := handler.NewReportHandler(d.Reports)
	reviewHandler := handler.NewReviewHandler(d.Reviews)

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireAdmin()

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authHandler.SignOut, requireAuth)
	auth.GET("/whoami", authHandler.WhoAmI, requireAuth)

	// --- User routes ---
	users := e.Group("/users")
	users.GET("", userHandler.List, requireAdmin)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update, requireAuth)
	users.DELETE("/:id", userHandler.Remove, requireAuth)
	users.PATCH("/:id/admin", userHandler.SetAdmin, requireAuth)
	users.GET("/:id/reports", userHandler.Reports)
	users.GET("/:id/reviews", userHandler.Reviews)

	// --- Report routes ---
	reports := e.Group("/reports")
	reports.POST("", reportHandler.Create, requireAuth)
	reports.GET("", reportHandler.List)
	reports.GET("/estimate", reportHandler.Estimate)
	reports.GET("/:id", reportHandler.Get)
	reports.PATCH("/:id", reportHandler.Update, requireAuth)
	reports.DELETE("/:id", reportHandler.Delete, requireAuth)
	reports.PATCH("/:id/approve", reportHandler.Approve, requireAuth)

	// --- Review routes ---
	reports.GET("/:id/reviews", reviewHandler.ListForReport)
	reports.POST("/:id/reviews", reviewHandler.Create, requireAuth)
	reports.PATCH("/:id/reviews/:rid", reviewHandler.Update, requireAuth)
	reports.DELETE("/:id/reviews/:rid", reviewHandler.Delete, requireAuth)
	e.GET("/reviews/:id", reviewHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

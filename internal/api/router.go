package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/melodia/admin-api/docs"
	"github.com/melodia/admin-api/internal/api/handler"
	"github.com/melodia/admin-api/internal/api/middleware"
	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/ports"
)

const defaultLoginRate = 5

// Dependencies groups what the router needs to build its handlers.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Tokens      ports.TokenVerifier
	Checks      map[string]handler.CheckFunc
	Log         zerolog.Logger

	// LoginRatePerSecond bounds /login and /register per client IP.
	LoginRatePerSecond float64

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
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
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(prometheusConfig(deps.Registry)))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	limiter := loginLimiter(deps.LoginRatePerSecond)

	e.POST("/login", authHandler.Login, limiter)
	e.POST("/register", authHandler.Register, limiter)
	e.POST("/logout", authHandler.Logout)

	// --- Back office (bearer token required) ---
	adminHandler := handler.NewAdminHandler(deps.UserService)
	admin := e.Group("/admin", middleware.Auth(deps.Tokens, deps.Log))

	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/profile", adminHandler.Profile)
	admin.GET("/users/:id/others", adminHandler.ListOthers, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/users/:id/avatar", adminHandler.SetAvatar)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks, deps.Log)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerConfig(deps.Registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "media_admin",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func handlerConfig(reg *prometheus.Registry) echoprometheus.HandlerConfig {
	if reg == nil {
		return echoprometheus.HandlerConfig{}
	}
	return echoprometheus.HandlerConfig{Gatherer: reg}
}

// loginLimiter throttles credential endpoints per client IP, in front of the
// per-username failure throttle kept in Redis.
func loginLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = defaultLoginRate
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     int(perSecond) * 2,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}

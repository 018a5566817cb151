package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/borgir/video-archive/internal/api/handler"
	"github.com/borgir/video-archive/internal/api/middleware"
	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

// Deps is everything the router needs. Registerer and Gatherer default to
// the global Prometheus registry.
type Deps struct {
	Auth   ports.AuthService
	Admin  ports.AdminService
	Videos ports.VideoService
	Tokens ports.TokenService

	HealthChecks map[string]handler.CheckFunc
	CORSOrigins  []string

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "video_archive",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	adminHandler := handler.NewAdminHandler(d.Admin)
	videoHandler := handler.NewVideoHandler(d.Videos)
	healthHandler := handler.NewHealthHandler(d.HealthChecks)

	authenticate := middleware.Authenticate(d.Tokens, d.Log)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	anyRole := middleware.RequireRole(domain.RoleAdmin, domain.RoleUser)

	apiGroup := e.Group("/api")

	// --- Public ---
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.POST("/auth/reset-password", authHandler.ResetPassword)
	apiGroup.POST("/admin/login", authHandler.Login)

	// --- Admin ---
	admin := apiGroup.Group("/admin", authenticate, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.AddUser)
	admin.POST("/add-user", adminHandler.AddUser)

	// --- Authenticated ---
	videos := apiGroup.Group("/videos", authenticate, anyRole)
	videos.GET("", videoHandler.List)
	videos.GET("/tags", videoHandler.Tags)
	videos.GET("/user/:userId", videoHandler.ListByUser)
	videos.POST("", videoHandler.Create)
	videos.DELETE("/:id", videoHandler.Delete)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
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

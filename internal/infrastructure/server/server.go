package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/taskmaster/todoplus/docs"
	httpHandlers "github.com/taskmaster/todoplus/internal/adapters/http"
	"github.com/taskmaster/todoplus/internal/adapters/storage"
	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/config"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/infrastructure/metrics"
	"github.com/taskmaster/todoplus/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	store    ports.KeyValueStore
	registry *prometheus.Registry
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs. Enum violations on priority and theme surface as the matching domain error.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Priority":
				return fmt.Errorf("%w: %v", entities.ErrInvalidPriority, fe.Value())
			case "Theme":
				return fmt.Errorf("%w: %v", entities.ErrInvalidTheme, fe.Value())
			}
		}
	}

	return err
}

// New creates a new server instance. registry may be nil when metrics are disabled.
func New(cfg *config.Config, svcs httpHandlers.Services, store ports.KeyValueStore, registry *prometheus.Registry, appLogger *logger.Logger) (*Server, error) {
	if svcs.Tasks == nil || svcs.Projects == nil || svcs.Preferences == nil || svcs.Data == nil || svcs.Clock == nil {
		return nil, errors.New("server: every service must be provided")
	}

	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	handlers := httpHandlers.NewHandlers(svcs, appLogger.WithComponent("http"))

	server := &Server{
		echo:     e,
		config:   cfg,
		logger:   appLogger,
		store:    store,
		registry: registry,
	}

	// Setup metrics first so the middleware observes every request
	if cfg.Metrics.Enabled {
		if registry == nil {
			server.registry = prometheus.NewRegistry()
		}
		server.setupMetrics()
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(handlers)

	return server, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Logger middleware
	s.echo.Use(s.requestLogger())

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	// Rate limiting middleware
	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(float64(s.config.Security.RateLimitRequests) / s.config.Security.RateLimitWindow.Seconds()),
					Burst:     s.config.Security.RateLimitRequests,
					ExpiresIn: s.config.Security.RateLimitWindow,
				},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, httpHandlers.ErrorResponse{Error: "forbidden", Message: "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, httpHandlers.ErrorResponse{Error: "rate_limited", Message: "rate limit exceeded"})
			},
		}))
	}

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Timeout middleware
	s.echo.Use(middleware.ContextTimeout(30 * time.Second))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h *httpHandlers.Handlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	todos := v1.Group("/todos")
	todos.GET("", h.Todos.ListTodos)
	todos.POST("", h.Todos.CreateTodo)
	todos.POST("/toggle-all", h.Todos.ToggleAll)
	todos.POST("/clear-completed", h.Todos.ClearCompleted)
	todos.PATCH("/:id", h.Todos.UpdateTodo)
	todos.DELETE("/:id", h.Todos.DeleteTodo)

	projects := v1.Group("/projects")
	projects.GET("", h.Projects.ListProjects)
	projects.POST("", h.Projects.CreateProject)
	projects.GET("/selected", h.Projects.GetSelectedProject)
	projects.PUT("/selected", h.Projects.SelectProject)
	projects.DELETE("/:id", h.Projects.DeleteProject)

	v1.GET("/theme", h.Preferences.GetTheme)
	v1.PUT("/theme", h.Preferences.SetTheme)

	data := v1.Group("/data")
	data.GET("/export", h.Data.Export)
	data.POST("/import", h.Data.Import)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	collectors := metrics.NewHTTP(s.registry)

	s.echo.Use(metricsMiddleware(collectors))

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.pingStore(c.Request().Context()); err != nil {
		status = "error"
		checks["storage"] = map[string]interface{}{
			"status":  "error",
			"backend": s.config.Storage.Backend,
			"error":   err.Error(),
		}
	} else {
		checks["storage"] = map[string]interface{}{
			"status":  "ok",
			"backend": s.config.Storage.Backend,
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.pingStore(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// pingStore checks backends that have a remote side. Memory and file stores are always ready.
func (s *Server) pingStore(ctx context.Context) error {
	pinger, ok := s.store.(storage.Pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return pinger.Ping(ctx)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address, "storage_backend", s.config.Storage.Backend)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		he := httpHandlers.ToHTTPError(err)

		body, ok := he.Message.(httpHandlers.ErrorResponse)
		if !ok {
			body = httpHandlers.ErrorResponse{
				Error:   strings.ReplaceAll(strings.ToLower(http.StatusText(he.Code)), " ", "_"),
				Message: fmt.Sprint(he.Message),
			}
		}

		if he.Code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(he.Code)
			} else {
				err = c.JSON(he.Code, body)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}

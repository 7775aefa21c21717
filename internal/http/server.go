// Package http provides the API server, router wiring and HTTP middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/voltpass/volt/internal/auth/http"
	authService "github.com/voltpass/volt/internal/auth/service"
	vaultHTTP "github.com/voltpass/volt/internal/vault/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// RouterConfig holds the handlers and middleware settings used to build the
// API router.
type RouterConfig struct {
	AuthHandler       *authHTTP.AuthHandler
	UserHandler       *authHTTP.UserHandler
	CredentialHandler *vaultHTTP.CredentialHandler
	JWTService        authService.JWTService

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	// MetricsMiddleware is applied to every route when set.
	MetricsMiddleware gin.HandlerFunc
}

// NewServer creates a new API server. The router is attached separately via
// SetupRouter so tests can install a minimal one.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the API router and registers all routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	var rateLimit gin.HandlerFunc
	if cfg.RateLimitEnabled {
		rateLimit = authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
	}

	auth := router.Group("/auth")
	{
		auth.POST("/register", withRateLimit(rateLimit, cfg.AuthHandler.RegisterHandler)...)
		auth.POST("/login", withRateLimit(rateLimit, cfg.AuthHandler.LoginHandler)...)
		auth.POST("/logout", cfg.AuthHandler.LogoutHandler)
		auth.POST("/refresh-token", cfg.AuthHandler.RefreshTokenHandler)
		auth.POST("/recover", withRateLimit(rateLimit, cfg.AuthHandler.RecoverHandler)...)
		auth.GET("/verify-token", cfg.AuthHandler.VerifyTokenHandler)
		auth.POST("/recover/reset", cfg.AuthHandler.ResetPasswordHandler)
	}

	authenticated := authHTTP.AuthenticationMiddleware(cfg.JWTService, s.logger)

	user := router.Group("/user")
	user.Use(authenticated)
	{
		user.GET("", cfg.UserHandler.GetHandler)
		user.PUT("", cfg.UserHandler.UpdateHandler)
		user.DELETE("", cfg.UserHandler.DeleteHandler)
	}

	credentials := router.Group("/credentials")
	credentials.Use(authenticated)
	{
		credentials.POST("", cfg.CredentialHandler.CreateHandler)
		credentials.GET("", cfg.CredentialHandler.ListHandler)
		credentials.DELETE("", cfg.CredentialHandler.DeleteBulkHandler)
		credentials.GET("/:id", cfg.CredentialHandler.GetHandler)
		credentials.PUT("/:id", cfg.CredentialHandler.UpdateHandler)
		credentials.DELETE("/:id", cfg.CredentialHandler.DeleteHandler)
	}

	s.router = router
}

// withRateLimit prepends the rate limit middleware to a handler chain when it
// is enabled.
func withRateLimit(rateLimit gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if rateLimit == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{rateLimit, handler}
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

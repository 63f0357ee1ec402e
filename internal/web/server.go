// Package web is the browser-facing shell. It serves the application route
// table as pages, keeps the session in a signed cookie and enforces the
// navigation guards on every page request.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/marquee-app/marquee/internal/api"
	"github.com/marquee-app/marquee/internal/config"
	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/router"
)

// Server represents the web shell
type Server struct {
	engine   *gin.Engine
	config   *config.Config
	logger   zerolog.Logger
	api      *api.Client
	notifier *notify.Notifier
}

// New creates the web shell around the shared API client
func New(cfg *config.Config, client *api.Client, zlog zerolog.Logger) (*Server, error) {
	if err := cfg.ValidateWeb(); err != nil {
		return nil, err
	}

	s := &Server{
		config:   cfg,
		logger:   zlog,
		api:      client,
		notifier: client.Notifier(),
	}

	s.notifier.Subscribe(notify.SinkFunc(func(n notify.Notification) error {
		s.logger.Debug().Str("type", n.Type).Str("id", n.ID).Msg(n.Message)
		return nil
	}))

	s.setupRouter()
	return s, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())

	store := cookie.NewStore([]byte(s.config.Web.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   s.config.Web.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	s.engine.Use(sessions.Sessions(sessionName, store))
	s.engine.Use(s.sessionState())

	s.engine.SetHTMLTemplate(pageTemplate)

	// Health check endpoint (no session needed, but harmless)
	s.engine.GET("/health", s.healthCheck)

	// Every route in the table is served by the guarded page handler
	for _, route := range router.DefaultRoutes() {
		s.engine.GET(route.Path, s.page)
	}
	s.engine.NoRoute(s.page)

	s.engine.POST("/login", s.login)
	s.engine.POST("/register", s.register)
	s.engine.POST("/logout", s.logout)
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "marquee-web",
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Web.ListenAddr,
		Handler:           s.engine,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Str("api", s.api.BaseURL()).Msg("Starting web shell")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web shell failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

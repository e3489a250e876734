package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reporadar/reporadar-backend/internal/auth"
	"github.com/reporadar/reporadar-backend/internal/auth/jwt"
	"github.com/reporadar/reporadar-backend/internal/config"
	"github.com/reporadar/reporadar-backend/internal/db"
	"github.com/reporadar/reporadar-backend/internal/ghfeed"
	"github.com/reporadar/reporadar-backend/internal/middleware"
	"github.com/reporadar/reporadar-backend/internal/radar"
	"github.com/reporadar/reporadar-backend/internal/tour"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server for the Repo Radar backend API.
type Server struct {
	cfg    *config.Config
	log    *logrus.Logger
	engine *gin.Engine
	db     *sql.DB // Database connection for health checks
}

// SetupRoutes registers all API routes and middleware for the server.
// This function centralizes route registration for maintainability.
func (s *Server) SetupRoutes(authHandler *auth.AuthHandler,
	radarHandler *radar.RadarHandler,
	feedHandler *ghfeed.GithubFeedHandler,
	tourHandler *tour.TourHandler,
	jwter *jwt.Manager) {
	// Create API v1 router group
	v1 := s.engine.Group("/api/v1")

	jwtMiddleware := middleware.JWTAuthMiddleware(jwter)

	// Every module guards its own group, login/callback stay public.
	auth.RegisterAuthRoutes(authHandler, v1, jwtMiddleware)
	radar.RegisterRadarRoutes(radarHandler, v1, jwtMiddleware)
	ghfeed.RegisterGithubFeedRoutes(feedHandler, v1, jwtMiddleware)
	tour.RegisterTourRoutes(tourHandler, v1, jwtMiddleware)
}

// routes registers health check and other non-API routes.
func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		// Basic health check
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Repo Radar backend is healthy",
		})
	})

	// Detailed health check with database connection pool stats
	s.engine.GET("/healthz/detailed", func(c *gin.Context) {
		// Check database connectivity
		if err := s.db.Ping(); err != nil {
			c.JSON(503, gin.H{
				"status":  "error",
				"message": "Database connection failed",
				"error":   err.Error(),
			})
			return
		}

		// Get connection pool statistics
		poolStats := db.GetConnectionStats(s.db)

		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Repo Radar backend is healthy",
			"database": gin.H{
				"status": "connected",
				"pool":   poolStats,
			},
			"timestamp": gin.H{
				"server_time": time.Now().UTC().Format(time.RFC3339),
			},
		})
	})
}

// New creates a new Server instance with the given config and logger.
func New(cfg *config.Config, log *logrus.Logger, db *sql.DB) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log))

	return &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
		db:     db,
	}
}

// Start runs the HTTP server on the configured port and blocks until the
// process is signalled to stop, then drains in-flight requests.
func (s *Server) Start() error {
	s.routes()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.Port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		s.log.Infof("received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/config"
	"github.com/pageza/cooking-assistant/backend/internal/middleware"
	"github.com/pageza/cooking-assistant/backend/internal/router"
	"github.com/pageza/cooking-assistant/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires the services over deps and builds the router
func New(cfg *config.Config, deps *Dependencies, logger *zap.Logger) (*Server, error) {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hasher, err := service.NewPasswordHasher(cfg.PasswordHash, cfg.PasswordPepper)
	if err != nil {
		return nil, err
	}
	auth := service.NewAuthService(deps.Users, hasher, cfg.JWTSecret)

	var ideas service.IdeaCache = service.NoopIdeaCache{}
	var limiter *middleware.RateLimiter
	if deps.Redis != nil {
		ideas = service.NewRedisIdeaCache(deps.Redis)
		if cfg.GenerationLimit > 0 {
			limiter = middleware.NewGenerationRateLimiter(deps.Redis, cfg.GenerationLimit, logger)
		}
	}

	generator := service.NewRecipeGenerator(deps.Generator, logger)
	recipes := service.NewRecipeService(generator, deps.Archive, deps.Users, ideas, logger)

	r := router.SetupRouter(router.Options{
		Auth:        auth,
		Recipes:     recipes,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Logger:      logger,
	})

	return &Server{
		router: r,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Handler returns the HTTP handler, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

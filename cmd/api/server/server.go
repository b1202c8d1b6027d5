package server

import (
	"net/http"
	"time"

	ginhandler "user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
	ginrouter "user-directory-service/internal/adapter/gin/router"
	"user-directory-service/internal/config"
	redisclient "user-directory-service/pkg/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Server holds the HTTP server serving the user directory API.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router fully configured.
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, redisClient *redisclient.Client) *Server {
	var rdb *redis.Client
	if redisClient != nil {
		rdb = redisClient.Client
	}

	router := ginrouter.SetupRouter(handler, rdb, middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
		Enabled:           cfg.RateLimit.Enabled,
	}, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

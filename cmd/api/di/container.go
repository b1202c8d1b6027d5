package di

import (
	"fmt"
	"time"

	"user-directory-service/cmd/api/infrastructure"
	"user-directory-service/internal/adapter/cache"
	"user-directory-service/internal/adapter/db/postgres"
	ginhandler "user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/repository/cached"
	"user-directory-service/internal/bootstrap"
	"user-directory-service/internal/config"
	"user-directory-service/internal/usecase/user"
	redisclient "user-directory-service/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies, wired explicitly at
// startup rather than resolved by a runtime container.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
	Seeder      *bootstrap.Seeder
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Repository, optionally decorated with the redis read cache
	dbRepo := postgres.NewUserRepoPG(db, l)
	var repo user.Repository = dbRepo
	if rdb != nil {
		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(dbRepo, userCache, l)
	}

	userUC := user.New(repo, l)

	ginHandler := ginhandler.NewUserHandler(userUC, l)

	var seeder *bootstrap.Seeder
	if cfg.Seed.Enabled {
		seeder = bootstrap.NewSeeder(
			userUC,
			cfg.Seed.URL,
			time.Duration(cfg.Seed.TimeoutSeconds)*time.Second,
			l,
		)
	}

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		UserUC:      userUC,
		GinHandler:  ginHandler,
		Seeder:      seeder,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}

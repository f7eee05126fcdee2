package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/cooking-assistant/backend/config"
	"github.com/pageza/cooking-assistant/backend/internal/database"
	"github.com/pageza/cooking-assistant/backend/internal/service"
	"github.com/pageza/cooking-assistant/backend/internal/store"
)

const s3ArchivePrefix = "recipes"

// Dependencies are the backing services selected by configuration
type Dependencies struct {
	Users     store.UserStore
	Archive   store.RecipeArchive
	Generator service.TextGenerator
	Redis     *redis.Client
	DB        *gorm.DB
}

// Bootstrap opens the stores, caches and clients named by cfg. Redis is
// optional: when it cannot be reached the server runs without idea caching
// and rate limiting.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	generator, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.GeminiModel, nil)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Generator: generator}

	if cfg.UsesDatabase() {
		db, err := database.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		deps.DB = db
	}

	switch cfg.StorageDriver {
	case config.DriverFile:
		deps.Users = store.NewFileUserStore(filepath.Join(cfg.DataDir, "users.json"))
	default:
		deps.Users = store.NewGormUserStore(deps.DB)
	}

	switch cfg.ArchiveDriver {
	case config.DriverFile:
		deps.Archive = store.NewFileArchive(filepath.Join(cfg.DataDir, "recipes"), logger)
	case config.DriverDB:
		deps.Archive = store.NewGormArchive(deps.DB)
	case config.DriverS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Archive = store.NewS3Archive(s3cfg.Client, s3cfg.BucketName, s3ArchivePrefix, logger)
	default:
		deps.Close()
		return nil, fmt.Errorf("unknown archive driver %q", cfg.ArchiveDriver)
	}

	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn("continuing without redis", zap.Error(err))
		} else {
			deps.Redis = client
		}
	}

	logger.Info("storage ready",
		zap.String("users", cfg.StorageDriver),
		zap.String("archive", cfg.ArchiveDriver),
		zap.Bool("redis", deps.Redis != nil))
	return deps, nil
}

// Close releases the database and Redis connections
func (d *Dependencies) Close() error {
	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		errs = append(errs, database.Close(d.DB))
	}
	return errors.Join(errs...)
}

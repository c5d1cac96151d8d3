package config

import (
	"context"
	"fmt"
	"os"

	"study-tracker/internal/cache"
	"study-tracker/internal/logging"
	"study-tracker/internal/notify"
	"study-tracker/internal/repository"
	"study-tracker/internal/repository/postgres"
	"study-tracker/internal/repository/sqlite"
)

// CreateRepository opens the configured store backend
func CreateRepository(ctx context.Context, config *Config, logger logging.Logger) (repository.Store, error) {
	switch config.Database.Backend {
	case BackendPostgres:
		return postgres.Open(ctx, config.Database.PostgresURL, logger)
	case BackendSQLite, "":
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		repo, err := sqlite.New(config.GetDatabasePath(), sqlite.Options{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown database backend %q", config.Database.Backend)
	}
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (repository.Store, error) {
	repo, err := sqlite.New(":memory:", sqlite.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}

// CreateReportCache opens the configured cache of last good reports
func CreateReportCache(ctx context.Context, config *Config) (cache.ReportCache, error) {
	switch config.Cache.Backend {
	case CacheNone:
		return cache.Nop{}, nil
	case CacheMemory, "":
		return cache.NewMemory(config.Cache.TTL), nil
	case CacheRedis:
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Addr = config.Cache.RedisAddr
		redisConfig.Password = config.Cache.RedisPassword
		redisConfig.DB = config.Cache.RedisDB
		redisConfig.TTL = config.Cache.TTL
		if config.Cache.KeyPrefix != "" {
			redisConfig.KeyPrefix = config.Cache.KeyPrefix
		}
		return cache.NewRedis(ctx, redisConfig)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}
}

// CreateNotifier returns an asynchronous notifier showing desktop
// notifications when enabled and logging them otherwise.
func CreateNotifier(config *Config, logger logging.Logger) *notify.Async {
	var next notify.Notifier = notify.NewLog(logger)
	if config.Notify.Desktop {
		next = notify.NewDesktop(config.Notify.AppName)
	}
	return notify.NewAsync(next, logger)
}

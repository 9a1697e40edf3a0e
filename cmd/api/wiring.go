// ABOUTME: Builds the logger, cache and store selected by configuration
// ABOUTME: Shared construction helpers for the API server entry point

package main

import (
	"fmt"
	"os"
	"time"

	"manabi-reader/core/interfaces"
	"manabi-reader/core/workers"
	"manabi-reader/infrastructure/cache/memory"
	"manabi-reader/infrastructure/cache/redis"
	logruslogger "manabi-reader/infrastructure/logger/logrus"
	stdlogger "manabi-reader/infrastructure/logger/standard"
	memstore "manabi-reader/infrastructure/store/memory"
	"manabi-reader/infrastructure/store/sqlite"
	"manabi-reader/pkg/config"
)

const memoryCacheCleanup = 10 * time.Minute

func newLogger(cfg config.LogConfig) interfaces.Logger {
	if cfg.Backend == "standard" {
		return stdlogger.NewStandardLogger(cfg.Level)
	}
	return logruslogger.New(logruslogger.Options{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: os.Stdout,
	})
}

// newCache returns the extraction cache and a close function.
func newCache(cfg config.CacheConfig, logger interfaces.Logger) (interfaces.Cache, func() error) {
	memoryCache := func() interfaces.Cache {
		expiration := time.Duration(cfg.Memory.DefaultExpiration) * time.Second
		return memory.NewMemoryCache(expiration, memoryCacheCleanup)
	}
	noop := func() error { return nil }

	if cfg.Type != "redis" {
		logger.Info("Using memory cache", nil)
		return memoryCache(), noop
	}

	redisCache, err := redis.NewRedisCache(cfg.Redis)
	if err != nil {
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
		return memoryCache(), noop
	}
	logger.Info("Using Redis cache", map[string]interface{}{
		"address": cfg.Redis.Address,
	})
	return redisCache, redisCache.Close
}

// newStore returns the content store and a close function.
func newStore(cfg config.StoreConfig, logger interfaces.Logger) (workers.WarmStore, func() error, error) {
	switch cfg.Type {
	case "sqlite":
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Using SQLite content store", map[string]interface{}{
			"path": cfg.SQLitePath,
		})
		return store, store.Close, nil
	default:
		logger.Info("Using in-memory content store", nil)
		return memstore.NewStore(), func() error { return nil }, nil
	}
}

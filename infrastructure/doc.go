// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory extraction cache on patrickmn/go-cache
// - cache/redis: Redis extraction cache
// - store/memory: In-memory content store
// - store/sqlite: SQLite content store
// - http/standard: Standard library HTTP client with retry logic
// - logger/standard: Simple structured logger
// - logger/logrus: Logrus-backed structured logger
// - browser/recorder: Browser surface that records loads, for tests and the CLI
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(time.Hour, 10*time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # Content Store
//
//	store, err := sqlite.NewStore("records.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "info", Format: "json"})
//	logger.Info("Reader load started", map[string]interface{}{
//	    "url": "https://example.com/article",
//	})
//
package infrastructure

// ABOUTME: Configuration management for the reader service with environment variable support
// ABOUTME: Defines server, store, cache, reader and logging settings, optionally seeded from a .env file

package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Store contains content store configuration
	Store StoreConfig

	// Cache contains extraction cache configuration
	Cache CacheConfig

	// Reader contains extraction and rendering settings
	Reader ReaderConfig

	// Log contains logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimitPerSecond is the sustained request rate allowed per client
	RateLimitPerSecond float64

	// RateLimitBurst is the burst size allowed per client
	RateLimitBurst int
}

// StoreConfig holds content store configuration
type StoreConfig struct {
	// Type specifies the store backend (memory/sqlite)
	Type string

	// SQLitePath is the database file used by the sqlite backend
	SQLitePath string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// ReaderConfig holds reader pipeline settings
type ReaderConfig struct {
	// MinContentLength is the default meaningful-content threshold
	MinContentLength int

	// FontSizePx is injected into interactive reader documents
	FontSizePx int

	// CacheTTL is how long pipeline results stay cached
	CacheTTL time.Duration

	// FetchTimeout bounds origin fetches for records without content
	FetchTimeout time.Duration

	// WarmerWorkers is the size of the cache warmer pool
	WarmerWorkers int
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is json or text
	Format string

	// Backend selects the logger implementation (logrus/standard)
	Backend string
}

// LoadFromEnv loads configuration from environment variables. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnvOrDefault("PORT", "8000"),
			RateLimitPerSecond: getEnvAsFloatOrDefault("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		Store: StoreConfig{
			Type:       getEnvOrDefault("STORE_TYPE", "memory"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "records.db"),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
			},
		},
		Reader: ReaderConfig{
			MinContentLength: getEnvAsIntOrDefault("READER_MIN_CONTENT_LENGTH", 140),
			FontSizePx:       getEnvAsIntOrDefault("READER_FONT_SIZE_PX", 18),
			CacheTTL:         getEnvAsDurationOrDefault("READER_CACHE_TTL", 24*time.Hour),
			FetchTimeout:     getEnvAsDurationOrDefault("READER_FETCH_TIMEOUT", 30*time.Second),
			WarmerWorkers:    getEnvAsIntOrDefault("READER_WARMER_WORKERS", 2),
		},
		Log: LogConfig{
			Level:   getEnvOrDefault("LOG_LEVEL", "info"),
			Format:  getEnvOrDefault("LOG_FORMAT", "json"),
			Backend: getEnvOrDefault("LOG_BACKEND", "logrus"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or plain seconds.
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimitPerSecond <= 0 || c.Server.RateLimitBurst < 1 {
		return errors.New("rate limit must allow at least one request")
	}

	if c.Store.Type != "memory" && c.Store.Type != "sqlite" {
		return errors.New("store type must be 'memory' or 'sqlite'")
	}

	if c.Store.Type == "sqlite" && c.Store.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when using sqlite store")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Reader.MinContentLength < 1 {
		return errors.New("reader min content length must be at least 1")
	}

	if c.Reader.FontSizePx < 0 {
		return errors.New("reader font size cannot be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log level must be one of debug, info, warn, error")
	}

	if c.Log.Backend != "logrus" && c.Log.Backend != "standard" {
		return errors.New("log backend must be 'logrus' or 'standard'")
	}

	return nil
}

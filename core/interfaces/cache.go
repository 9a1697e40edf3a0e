// Package interfaces defines the contracts between the reader core and its collaborators.
// Concrete implementations live under infrastructure/ so the core stays testable.
package interfaces

import (
	"context"
	"time"
)

// Cache stores serialized pipeline results keyed by a content hash.
// Implementations can be Redis, in-memory, or any other caching solution.
//
// Example usage:
//
//	data, err := cache.Get(ctx, "reader:9F1C2A...")
//	if err != nil {
//		// cache miss, run extraction
//	}
//	_ = cache.Set(ctx, "reader:9F1C2A...", encoded, 24*time.Hour)
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns an error if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

package cache

import (
	"log/slog"
	"time"
)

// Options selects and configures a cache backend.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix namespaces keys in shared backends.
	Prefix string

	// DefaultTTL is applied when Set receives a zero TTL.
	DefaultTTL time.Duration

	// MaxSize caps the memory backend's entry count (0 = unlimited).
	MaxSize int
}

// New creates a cache from the given options. When a Redis URL is set
// but the connection fails, it logs a warning and falls back to the
// memory backend so the application still starts.
func New(opts Options, log *slog.Logger) Cache {
	if opts.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
		if err == nil {
			log.Info("cache backend ready", "backend", "redis")
			return rc
		}
		log.Warn("redis cache unavailable, falling back to memory", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      opts.DefaultTTL,
		MaxSize:         opts.MaxSize,
		CleanupInterval: time.Minute,
	})
}

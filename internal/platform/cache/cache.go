// Package cache memoizes derived dashboard views.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheMiss indicates the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Client is the view cache.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

// Key joins key parts with ':'.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Backends understood by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	MaxEntries int
	Redis      RedisConfig
}

// New builds the configured Client. The redis backend is pinged before use.
func New(ctx context.Context, opts Options) (Client, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryClient(opts.MaxEntries), nil
	case BackendRedis:
		return NewRedisClient(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

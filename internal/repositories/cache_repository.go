package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface holds the login throttling counters.
// Get returns ErrCacheMiss when the key is absent.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	// IncrWithin bumps the counter at key. The first increment starts a window that expires after window.
	IncrWithin(ctx context.Context, key string, window time.Duration) (int64, error)
}

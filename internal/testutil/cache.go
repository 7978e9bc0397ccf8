package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"employee-system/internal/repositories"
)

// Cache is an in-memory CacheRepositoryInterface. Expirations are recorded, not enforced.
type Cache struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Duration
	Err     error
	// SetErr fails Set only.
	SetErr error
}

var _ repositories.CacheRepositoryInterface = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{values: map[string]string{}, expires: map[string]time.Duration{}}
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	if c.SetErr != nil {
		return c.SetErr
	}
	c.values[key] = fmt.Sprint(value)
	c.expires[key] = expiration
	return nil
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		delete(c.expires, k)
	}
	return nil
}

func (c *Cache) IncrWithin(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	if n == 1 {
		c.expires[key] = window
	}
	return n, nil
}

// Has reports whether key is present.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

// TTL returns the last expiration set on key.
func (c *Cache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expires[key]
}

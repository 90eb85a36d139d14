package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes
const (
	DashboardPrefix = "dashboard:"
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every
// helper below degrades to a no-op, so the service runs uncached.
func Init(addr, password string, db int) error {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		// Close the failed client for graceful degradation
		c.Close()
		return err
	}
	client = c
	return nil
}

// GetClient returns the Redis client (nil when not connected)
func GetClient() *redis.Client {
	return client
}

// Close drops the connection
func Close() {
	if client != nil {
		client.Close()
		client = nil
	}
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil || ttl <= 0 {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	var keys []string
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateDashboardCaches clears every cached dashboard
// Called when: downtime or quality records change
func InvalidateDashboardCaches(ctx context.Context) {
	InvalidatePattern(ctx, DashboardPrefix+"*")
}

// Ping reports whether Redis answers. A missing client is not an error.
func Ping(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// redirectKeyPrefix namespaces cached alias lookups.
const redirectKeyPrefix = "url:"

// RedisCache is the Redis implementation of shortener.Cache. Entries are
// JSON-encoded redirect tuples with a per-write TTL; staleness is bounded
// by that TTL and tolerated by the service contract.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed redirect cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) GetRedirect(ctx context.Context, alias string) (*shortener.RedirectEntry, error) {
	payload, err := r.client.Get(ctx, redirectKeyPrefix+alias).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrCacheMiss
		}

		return nil, err
	}

	var entry shortener.RedirectEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		// A corrupt entry behaves like a miss; the repository is the
		// source of truth.
		return nil, shortener.ErrCacheMiss
	}

	return &entry, nil
}

func (r *RedisCache) SetRedirect(ctx context.Context, alias string, entry *shortener.RedirectEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, redirectKeyPrefix+alias, payload, ttl).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)

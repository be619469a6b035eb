// internal/cache/cache.go

// Package cache wraps redis as a key -> serialized-blob store with TTL.
// Aggregation summaries live here for a few minutes; parameter changes
// clear them by key pattern. A nil client degrades to cache-off.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Warn("redis unreachable, caching disabled")
		return &Store{client: nil, ttl: ttl}
	}

	return &Store{client: client, ttl: ttl}
}

// Disabled returns a store that never hits redis. Used in tests and
// when no redis address is configured.
func Disabled() *Store {
	return &Store{}
}

// Get unmarshals the cached blob at key into dest. Returns false on
// miss, disabled cache, or decode failure.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.client == nil {
		return false
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to decode cached value")
		return false
	}
	return true
}

func (s *Store) Put(ctx context.Context, key string, value interface{}) {
	if s == nil || s.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to encode value for cache")
		return
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to write cache")
	}
}

// ClearPattern deletes every key matching the glob pattern, e.g.
// "dashboard:*".
func (s *Store) ClearPattern(ctx context.Context, pattern string) {
	if s == nil || s.client == nil {
		return
	}

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).WithField("pattern", pattern).Warn("cache scan failed")
		return
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			logrus.WithError(err).WithField("pattern", pattern).Warn("cache invalidation failed")
		}
	}
}

func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Key builds a cache key from a namespace and query-shape parts.
func Key(namespace string, parts ...interface{}) string {
	key := namespace
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

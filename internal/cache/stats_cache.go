package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when nothing is cached under the key.
var ErrMiss = errors.New("cache miss")

// StatsCache holds computed aggregate snapshots (booking stats and the like).
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

type redisStatsCache struct {
	rdb       *goredis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStatsCache connects to Redis and verifies the connection.
func NewRedisStatsCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (StatsCache, *goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	return NewStatsCache(rdb, ttl), rdb, nil
}

// NewStatsCache wraps an existing client.
func NewStatsCache(rdb *goredis.Client, ttl time.Duration) StatsCache {
	return &redisStatsCache{rdb: rdb, ttl: ttl, keyPrefix: "engraced:stats:"}
}

func (c *redisStatsCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *redisStatsCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.keyPrefix+key, raw, c.ttl).Err()
}

func (c *redisStatsCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.keyPrefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

// Noop never caches anything.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) error { return ErrMiss }
func (Noop) Set(context.Context, string, interface{}) error { return nil }
func (Noop) Invalidate(context.Context, ...string) error { return nil }

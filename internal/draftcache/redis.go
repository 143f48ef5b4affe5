package draftcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-composer/pkg/interfaces"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix namespaces draft keys.
	DefaultKeyPrefix = "composer:draft:"
	// DefaultTTL is how long an untouched draft survives.
	DefaultTTL = 7 * 24 * time.Hour
)

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("draftcache: redis ping: %w", err)
	}
	return client, nil
}

// RedisCache stores drafts in Redis (or Valkey) with a sliding TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a draft cache backed by client. Zero values select
// DefaultKeyPrefix and DefaultTTL.
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(pageID string) string {
	return c.prefix + pageID
}

func (c *RedisCache) Get(ctx context.Context, pageID string) (*interfaces.DraftSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(pageID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("draftcache: redis get: %w", err)
	}
	snapshot, err := decodeSnapshot(raw)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func (c *RedisCache) Set(ctx context.Context, pageID string, snapshot interfaces.DraftSnapshot) error {
	raw, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(pageID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("draftcache: redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Remove(ctx context.Context, pageID string) error {
	if err := c.client.Del(ctx, c.key(pageID)).Err(); err != nil {
		return fmt.Errorf("draftcache: redis del: %w", err)
	}
	return nil
}

var _ interfaces.DraftCache = (*RedisCache)(nil)

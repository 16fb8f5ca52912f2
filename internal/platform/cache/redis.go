package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"message_board/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connect opens a Redis client and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return rdb, nil
}

const generationKey = "feed:generation"

// FeedCache keeps recently served pages of the public message feed in
// Redis. Every write to the board bumps a generation counter, so pages
// cached before the write are never served again; the TTL cleans them up.
// The cache is read-through and never authoritative: any Redis failure
// degrades to the database.
type FeedCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewFeedCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *FeedCache {
	return &FeedCache{rdb: rdb, ttl: ttl, logger: logger}
}

// FeedPage is a single (limit, since) page lookup pinned to the generation
// observed when the lookup started. Storing through the page keeps a result
// that was read before a concurrent bump from landing under the new
// generation.
type FeedPage struct {
	cache    *FeedCache
	key      string
	keyed    bool
	messages []model.Message
	hit      bool
}

// Lookup resolves the key for (limit, since) under the current generation
// and reads the cached page if a fresh one exists.
func (c *FeedCache) Lookup(ctx context.Context, limit int, since int64) *FeedPage {
	page := &FeedPage{cache: c}

	key, err := c.pageKey(ctx, limit, since)
	if err != nil {
		c.logger.Warn("feed cache unavailable", zap.Error(err))
		return page
	}
	page.key = key
	page.keyed = true

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("feed cache read failed", zap.Error(err))
		}
		return page
	}

	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		c.logger.Warn("feed cache entry corrupt", zap.String("key", key), zap.Error(err))
		return page
	}
	page.messages = messages
	page.hit = true
	return page
}

// Cached returns the page content when the lookup was a hit.
func (p *FeedPage) Cached() ([]model.Message, bool) {
	return p.messages, p.hit
}

// Store caches messages under the key resolved at lookup time. A bump that
// landed after the lookup leaves this entry on the old, dead generation.
func (p *FeedPage) Store(ctx context.Context, messages []model.Message) {
	if !p.keyed {
		return
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return
	}
	if err := p.cache.rdb.Set(ctx, p.key, data, p.cache.ttl).Err(); err != nil {
		p.cache.logger.Warn("feed cache write failed", zap.Error(err))
	}
}

// Bump invalidates every cached page by advancing the generation counter.
func (c *FeedCache) Bump(ctx context.Context) {
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("feed cache bump failed", zap.Error(err))
	}
}

func (c *FeedCache) pageKey(ctx context.Context, limit int, since int64) (string, error) {
	generation, err := c.rdb.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("feed:v%d:limit=%d:since=%d", generation, limit, since), nil
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/domain/tag"
)

const latestStatusTTL = 5 * time.Minute

type redisStatusCache struct {
	rdb *redis.Client
}

func NewRedisStatusCache(rdb *redis.Client) service.StatusCache {
	return &redisStatusCache{rdb: rdb}
}

func latestStatusKey(tagID uuid.UUID) string {
	return fmt.Sprintf("tag:%s:latest", tagID)
}

func (c *redisStatusCache) GetLatest(ctx context.Context, tagID uuid.UUID) (*tag.Status, error) {
	raw, err := c.rdb.Get(ctx, latestStatusKey(tagID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read latest status cache: %w", err)
	}

	s := &tag.Status{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode cached status: %w", err)
	}
	return s, nil
}

func (c *redisStatusCache) SetLatest(ctx context.Context, s *tag.Status) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode status for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, latestStatusKey(s.TagID), raw, latestStatusTTL).Err(); err != nil {
		return fmt.Errorf("write latest status cache: %w", err)
	}
	return nil
}

func (c *redisStatusCache) Invalidate(ctx context.Context, tagID uuid.UUID) error {
	if err := c.rdb.Del(ctx, latestStatusKey(tagID)).Err(); err != nil {
		return fmt.Errorf("invalidate latest status cache: %w", err)
	}
	return nil
}

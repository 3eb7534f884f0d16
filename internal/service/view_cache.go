package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hirelens/hirelens-api/internal/dto"
)

const viewCacheKeyPrefix = "assessment:view:"

// AssessmentViewCache caches assembled assessment views. Misses and cache
// failures are silent; the store stays the source of truth.
type AssessmentViewCache interface {
	Get(ctx context.Context, assessmentID string) (*dto.AssessmentView, bool)
	Set(ctx context.Context, assessmentID string, view *dto.AssessmentView)
	Invalidate(ctx context.Context, assessmentID string)
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisViewCache constructs a Redis-backed view cache.
func NewRedisViewCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) AssessmentViewCache {
	return &redisViewCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "assessment_view_cache").Logger(),
	}
}

func (c *redisViewCache) Get(ctx context.Context, assessmentID string) (*dto.AssessmentView, bool) {
	raw, err := c.client.Get(ctx, viewCacheKeyPrefix+assessmentID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("view cache read failed")
		}
		return nil, false
	}
	var view dto.AssessmentView
	if err := json.Unmarshal(raw, &view); err != nil {
		c.logger.Warn().Err(err).Msg("view cache payload corrupt")
		return nil, false
	}
	return &view, true
}

func (c *redisViewCache) Set(ctx context.Context, assessmentID string, view *dto.AssessmentView) {
	raw, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn().Err(err).Msg("view cache encode failed")
		return
	}
	if err := c.client.Set(ctx, viewCacheKeyPrefix+assessmentID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("view cache write failed")
	}
}

func (c *redisViewCache) Invalidate(ctx context.Context, assessmentID string) {
	if err := c.client.Del(ctx, viewCacheKeyPrefix+assessmentID).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("view cache invalidation failed")
	}
}

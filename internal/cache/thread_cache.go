package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"forum-service/internal/dto"
	"forum-service/internal/metrics"
)

const (
	threadListKey           = "forum:threads:list:v1"
	threadListGenerationKey = "forum:threads:list:generation"
)

// setIfGeneration stores the listing only while the generation still matches
// the one read before the database load
var setIfGeneration = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// ThreadListCache caches the full thread listing. Cache failures are logged
// and treated as misses; they never fail a request.
//
// Every Invalidate bumps a generation counter. A loader reads Generation
// before querying the database and passes it to Set, which drops the write
// when a write invalidated the listing in between.
type ThreadListCache interface {
	Get(ctx context.Context) ([]dto.ThreadResponse, bool)
	Generation(ctx context.Context) (int64, bool)
	Set(ctx context.Context, generation int64, threads []dto.ThreadResponse) bool
	Invalidate(ctx context.Context)
}

type redisThreadListCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewThreadListCache returns a Redis-backed cache, or a no-op cache when
// client is nil or ttl is zero
func NewThreadListCache(client *redis.Client, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) ThreadListCache {
	if client == nil || ttl <= 0 {
		return noopThreadListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisThreadListCache{client: client, ttl: ttl, logger: logger, metrics: m}
}

func (c *redisThreadListCache) Get(ctx context.Context) ([]dto.ThreadResponse, bool) {
	raw, err := c.client.Get(ctx, threadListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Thread list cache read failed", zap.Error(err))
		}
		c.record(false)
		return nil, false
	}

	var threads []dto.ThreadResponse
	if err := json.Unmarshal(raw, &threads); err != nil {
		c.logger.Warn("Discarding corrupt thread list cache entry", zap.Error(err))
		c.Invalidate(ctx)
		c.record(false)
		return nil, false
	}
	c.record(true)
	return threads, true
}

func (c *redisThreadListCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, threadListGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("Thread list cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (c *redisThreadListCache) Set(ctx context.Context, generation int64, threads []dto.ThreadResponse) bool {
	raw, err := json.Marshal(threads)
	if err != nil {
		c.logger.Warn("Failed to encode thread list for cache", zap.Error(err))
		return false
	}
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{threadListGenerationKey, threadListKey},
		generation, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.logger.Warn("Thread list cache write failed", zap.Error(err))
		return false
	}
	if stored == 0 {
		c.logger.Debug("Skipping stale thread list cache write", zap.Int64("generation", generation))
		return false
	}
	return true
}

func (c *redisThreadListCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, threadListGenerationKey)
		pipe.Del(ctx, threadListKey)
		return nil
	})
	if err != nil {
		c.logger.Warn("Thread list cache invalidation failed", zap.Error(err))
	}
}

func (c *redisThreadListCache) record(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(hit)
	}
}

type noopThreadListCache struct{}

func (noopThreadListCache) Get(context.Context) ([]dto.ThreadResponse, bool)      { return nil, false }
func (noopThreadListCache) Generation(context.Context) (int64, bool)              { return 0, false }
func (noopThreadListCache) Set(context.Context, int64, []dto.ThreadResponse) bool { return false }
func (noopThreadListCache) Invalidate(context.Context)                            {}

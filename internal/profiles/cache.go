// internal/profiles/cache.go
package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"disc-workers/internal/common/logger"
	"disc-workers/internal/common/metrics"
	"disc-workers/internal/disc"
	"disc-workers/internal/models"
)

const (
	cacheKeyPrefix      = "disc:profiles:"
	generationKeyPrefix = "disc:profiles-gen:"
	countField          = "count"
)

// storeIfCurrent writes one hash field only while the owner's generation still
// matches the one read before the store was queried.
// KEYS: hash, generation. ARGV: generation, field, value, ttl in ms.
var storeIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

// CachedRepository is a read-through Redis cache in front of a ProfileRepository.
// Each owner has one hash holding their cached history pages and count, so a
// save invalidates everything for that owner with a single DEL.
// Invalidation also bumps a per-owner generation; a read that started before
// the bump does not write its result back.
// Redis failures degrade to the underlying repository.
type CachedRepository struct {
	next   models.ProfileRepository
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next models.ProfileRepository, client redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedRepository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedRepository{next: next, redis: client, ttl: ttl, logger: log}
}

func cacheKey(ownerID string) string {
	return cacheKeyPrefix + ownerID
}

func generationKey(ownerID string) string {
	return generationKeyPrefix + ownerID
}

func limitField(limit int) string {
	if limit < 0 {
		limit = 0
	}
	return "limit:" + strconv.Itoa(limit)
}

func (c *CachedRepository) SaveProfile(ctx context.Context, profile *disc.Profile, ownerID string) (*models.ProfileRecord, error) {
	record, err := c.next.SaveProfile(ctx, profile, ownerID)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, ownerID)
	return record, nil
}

// Invalidate drops every cached entry for ownerID.
func (c *CachedRepository) Invalidate(ctx context.Context, ownerID string) {
	if err := c.redis.Incr(ctx, generationKey(ownerID)).Err(); err != nil {
		c.logger.Warn("profile cache generation bump failed", map[string]interface{}{
			"userId": ownerID,
			"error":  err.Error(),
		})
	}
	if err := c.redis.Del(ctx, cacheKey(ownerID)).Err(); err != nil {
		c.logger.Warn("profile cache invalidation failed", map[string]interface{}{
			"userId": ownerID,
			"error":  err.Error(),
		})
	}
}

func (c *CachedRepository) GetUserProfiles(ctx context.Context, ownerID string, limit int) ([]*disc.Profile, error) {
	key, field := cacheKey(ownerID), limitField(limit)

	if raw, ok := c.lookup(ctx, key, field); ok {
		var cached []*disc.Profile
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key, "field": field})
	}

	gen, cacheable := c.generation(ctx, ownerID)
	out, err := c.next.GetUserProfiles(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	if !cacheable {
		return out, nil
	}
	if data, err := json.Marshal(out); err == nil {
		c.store(ctx, ownerID, gen, field, string(data))
	}
	return out, nil
}

func (c *CachedRepository) CountUserProfiles(ctx context.Context, ownerID string) (int, error) {
	key := cacheKey(ownerID)

	if raw, ok := c.lookup(ctx, key, countField); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n, nil
		}
	}

	gen, cacheable := c.generation(ctx, ownerID)
	n, err := c.next.CountUserProfiles(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if cacheable {
		c.store(ctx, ownerID, gen, countField, strconv.Itoa(n))
	}
	return n, nil
}

func (c *CachedRepository) lookup(ctx context.Context, key, field string) (string, bool) {
	raw, err := c.redis.HGet(ctx, key, field).Result()
	switch {
	case err == nil:
		metrics.ProfileCacheRequests.WithLabelValues("hit").Inc()
		return raw, true
	case errors.Is(err, redis.Nil):
		metrics.ProfileCacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.ProfileCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("profile cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return "", false
}

// generation reads the owner's cache generation. It reports false when Redis
// cannot be read, in which case the caller skips the write-back.
func (c *CachedRepository) generation(ctx context.Context, ownerID string) (string, bool) {
	gen, err := c.redis.Get(ctx, generationKey(ownerID)).Result()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return "0", true
	default:
		c.logger.Warn("profile cache generation read failed", map[string]interface{}{
			"userId": ownerID,
			"error":  err.Error(),
		})
		return "", false
	}
}

func (c *CachedRepository) store(ctx context.Context, ownerID, gen, field, value string) {
	key := cacheKey(ownerID)
	written, err := storeIfCurrent.Run(ctx, c.redis,
		[]string{key, generationKey(ownerID)},
		gen, field, value, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.logger.Warn("profile cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	if written == 0 {
		c.logger.Debug("skipped stale profile cache write", map[string]interface{}{
			"key":   key,
			"field": field,
		})
	}
}

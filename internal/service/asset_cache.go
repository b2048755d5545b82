package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medtour-backend/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisImagesKeyPrefix     = "assets:images:"
	RedisFAQsKeyPrefix       = "assets:faqs:"
	RedisGenerationKeyPrefix = "assets:gen:"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second
)

// NoGeneration is returned when the generation could not be read. Sets
// carrying it are dropped.
const NoGeneration int64 = -1

// AssetCache is a read-through cache for the public asset listings of an
// owner. A cache failure is never fatal: readers fall back to the database.
//
// Entries are stored per generation. Get returns the generation it looked at,
// and Set must be given that value back; Invalidate moves the owner to a new
// generation, so a listing read from the database before a write committed
// can no longer be served once the write has invalidated.
type AssetCache interface {
	GetImages(ctx context.Context, owner entity.OwnerRef) ([]entity.Image, int64, bool)
	SetImages(ctx context.Context, owner entity.OwnerRef, gen int64, images []entity.Image)
	GetActiveFAQs(ctx context.Context, owner entity.OwnerRef) ([]entity.FAQ, int64, bool)
	SetActiveFAQs(ctx context.Context, owner entity.OwnerRef, gen int64, faqs []entity.FAQ)
	Invalidate(ctx context.Context, owner entity.OwnerRef)
}

type redisAssetCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewRedisAssetCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) AssetCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisAssetCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func generationKey(owner entity.OwnerRef) string {
	return fmt.Sprintf("%s%s:%d", RedisGenerationKeyPrefix, owner.Kind, owner.ID)
}

func imagesKey(owner entity.OwnerRef, gen int64) string {
	return fmt.Sprintf("%s%s:%d:g%d", RedisImagesKeyPrefix, owner.Kind, owner.ID, gen)
}

func faqsKey(owner entity.OwnerRef, gen int64) string {
	return fmt.Sprintf("%s%s:%d:g%d", RedisFAQsKeyPrefix, owner.Kind, owner.ID, gen)
}

func (c *redisAssetCache) GetImages(ctx context.Context, owner entity.OwnerRef) ([]entity.Image, int64, bool) {
	gen := c.generation(ctx, owner)
	if gen == NoGeneration {
		return nil, gen, false
	}
	var images []entity.Image
	if !c.get(ctx, imagesKey(owner, gen), &images) {
		return nil, gen, false
	}
	return images, gen, true
}

func (c *redisAssetCache) SetImages(ctx context.Context, owner entity.OwnerRef, gen int64, images []entity.Image) {
	if gen == NoGeneration {
		return
	}
	c.set(ctx, imagesKey(owner, gen), images)
}

func (c *redisAssetCache) GetActiveFAQs(ctx context.Context, owner entity.OwnerRef) ([]entity.FAQ, int64, bool) {
	gen := c.generation(ctx, owner)
	if gen == NoGeneration {
		return nil, gen, false
	}
	var faqs []entity.FAQ
	if !c.get(ctx, faqsKey(owner, gen), &faqs) {
		return nil, gen, false
	}
	return faqs, gen, true
}

func (c *redisAssetCache) SetActiveFAQs(ctx context.Context, owner entity.OwnerRef, gen int64, faqs []entity.FAQ) {
	if gen == NoGeneration {
		return
	}
	c.set(ctx, faqsKey(owner, gen), faqs)
}

// Invalidate bumps the owner's generation. Entries of older generations are
// never read again and expire with the TTL.
func (c *redisAssetCache) Invalidate(ctx context.Context, owner entity.OwnerRef) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisCacheTimeout)
	defer cancel()

	if err := c.redisClient.Incr(ctx, generationKey(owner)).Err(); err != nil {
		c.log.Warnf("Failed to invalidate asset cache for %s: %+v", owner, err)
	}
}

// generation returns the current generation of owner, 0 when it was never
// invalidated.
func (c *redisAssetCache) generation(ctx context.Context, owner entity.OwnerRef) int64 {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	gen, err := c.redisClient.Get(ctx, generationKey(owner)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0
		}
		c.log.Warnf("Failed to read asset cache generation for %s: %+v", owner, err)
		return NoGeneration
	}
	return gen
}

func (c *redisAssetCache) get(ctx context.Context, key string, dst interface{}) bool {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read asset cache %s: %+v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warnf("Failed to decode asset cache %s: %+v", key, err)
		return false
	}
	return true
}

func (c *redisAssetCache) set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warnf("Failed to encode asset cache %s: %+v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()
	if err := c.redisClient.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to write asset cache %s: %+v", key, err)
	}
}

type noopAssetCache struct{}

// NewNoopAssetCache returns a cache that never hits.
func NewNoopAssetCache() AssetCache {
	return noopAssetCache{}
}

func (noopAssetCache) GetImages(context.Context, entity.OwnerRef) ([]entity.Image, int64, bool) {
	return nil, NoGeneration, false
}
func (noopAssetCache) SetImages(context.Context, entity.OwnerRef, int64, []entity.Image) {}
func (noopAssetCache) GetActiveFAQs(context.Context, entity.OwnerRef) ([]entity.FAQ, int64, bool) {
	return nil, NoGeneration, false
}
func (noopAssetCache) SetActiveFAQs(context.Context, entity.OwnerRef, int64, []entity.FAQ) {}
func (noopAssetCache) Invalidate(context.Context, entity.OwnerRef)                         {}

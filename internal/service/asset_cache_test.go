package service

import (
	"context"
	"io"
	"testing"
	"time"

	"medtour-backend/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAssetCacheKeys(t *testing.T) {
	owner := entity.OwnerRef{Kind: entity.OwnerDoctor, ID: 42}

	assert.Equal(t, "assets:gen:doctor:42", generationKey(owner))
	assert.Equal(t, "assets:images:doctor:42:g0", imagesKey(owner, 0))
	assert.Equal(t, "assets:faqs:doctor:42:g3", faqsKey(owner, 3))
	assert.NotEqual(t, imagesKey(owner, 1), imagesKey(owner, 2))
}

func TestRedisAssetCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewRedisAssetCache(client, quietLogger(), time.Minute)
	owner := entity.OwnerRef{Kind: entity.OwnerHospital, ID: 1}
	ctx := context.Background()

	cache.SetImages(ctx, owner, 0, []entity.Image{{ID: 1}})
	images, gen, ok := cache.GetImages(ctx, owner)
	assert.False(t, ok)
	assert.Nil(t, images)
	assert.Equal(t, NoGeneration, gen)

	_, _, ok = cache.GetActiveFAQs(ctx, owner)
	assert.False(t, ok)

	assert.NotPanics(t, func() { cache.Invalidate(ctx, owner) })
}

func TestNoopAssetCache(t *testing.T) {
	cache := NewNoopAssetCache()
	owner := entity.OwnerRef{Kind: entity.OwnerBlog, ID: 5}

	cache.SetActiveFAQs(context.Background(), owner, 0, []entity.FAQ{{ID: 1}})
	_, _, ok := cache.GetActiveFAQs(context.Background(), owner)
	assert.False(t, ok)
}

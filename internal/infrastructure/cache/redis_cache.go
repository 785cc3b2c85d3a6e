package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/logger"
)

// RedisCache хранит рассчитанные оценки доверия в Redis.
// Ошибки Redis не пробрасываются: промах кэша ведёт к пересчёту.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient разбирает REDIS_URL и проверяет соединение.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: некорректный url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) (*service.TrustScore, bool) {
	raw, err := c.client.Get(ctx, trustScoreKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("user_id", userID).Warn("cache: не удалось прочитать оценку доверия")
		}
		return nil, false
	}

	var score service.TrustScore
	if err := json.Unmarshal(raw, &score); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("cache: повреждённая запись оценки доверия")
		return nil, false
	}
	return &score, true
}

func (c *RedisCache) Set(ctx context.Context, userID uuid.UUID, score service.TrustScore) {
	raw, err := json.Marshal(score)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, trustScoreKey(userID), raw, c.ttl).Err(); err != nil {
		logger.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Warn("cache: не удалось сохранить оценку доверия")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, trustScoreKey(userID)).Err(); err != nil {
		logger.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Warn("cache: не удалось сбросить оценку доверия")
	}
}

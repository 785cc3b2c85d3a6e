package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/goroutine"
)

// MemoryCache — in-memory кэш с TTL, используется когда Redis не настроен.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	data      service.TrustScore
	expiresAt time.Time
}

// NewMemoryCache создаёт кэш и запускает очистку просроченных записей до отмены ctx.
func NewMemoryCache(ctx context.Context, ttl time.Duration) *MemoryCache {
	c := &MemoryCache{
		items: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
	goroutine.GoWithContext(ctx, "trust-cache-cleanup", func(ctx context.Context) {
		c.cleanup(ctx, 5*time.Minute)
	})
	return c
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (*service.TrustScore, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.items[trustScoreKey(userID)]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	score := entry.data
	return &score, true
}

func (c *MemoryCache) Set(_ context.Context, userID uuid.UUID, score service.TrustScore) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[trustScoreKey(userID)] = &cacheEntry{data: score, expiresAt: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Invalidate(_ context.Context, userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, trustScoreKey(userID))
}

func (c *MemoryCache) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.items {
				if now.After(entry.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

const trustScorePrefix = "trust_score:"

func trustScoreKey(userID uuid.UUID) string {
	return trustScorePrefix + userID.String()
}

package donation

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TotalsCache caches lifetime donor totals in Redis so milestone lookups do
// not hit Postgres on every storefront render.
type TotalsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTotalsCache constructs a donor totals cache.
func NewTotalsCache(client *redis.Client, ttl time.Duration) *TotalsCache {
	return &TotalsCache{client: client, ttl: ttl}
}

func totalKey(donorID string) string {
	return "donor:total:" + donorID
}

// Get returns the cached total for a donor. It reports whether the key existed.
func (c *TotalsCache) Get(ctx context.Context, donorID string) (int64, bool, error) {
	if c == nil || c.client == nil || donorID == "" {
		return 0, false, nil
	}
	raw, err := c.client.Get(ctx, totalKey(donorID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return total, true, nil
}

// Set stores the total for a donor with the configured TTL.
func (c *TotalsCache) Set(ctx context.Context, donorID string, totalCents int64) error {
	if c == nil || c.client == nil || donorID == "" {
		return nil
	}
	return c.client.Set(ctx, totalKey(donorID), strconv.FormatInt(totalCents, 10), c.ttl).Err()
}

// Invalidate drops the cached total after a new donation is recorded.
func (c *TotalsCache) Invalidate(ctx context.Context, donorID string) error {
	if c == nil || c.client == nil || donorID == "" {
		return nil
	}
	return c.client.Del(ctx, totalKey(donorID)).Err()
}

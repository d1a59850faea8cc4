package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis helpers for JSON payloads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(vendor string) string {
	return "settings:vendor:" + vendor
}

// Get unmarshals the cached settings for a vendor. It reports whether the key existed.
func (c *Cache) Get(ctx context.Context, vendor string, dst *VendorSettings) (bool, error) {
	if c == nil || c.client == nil || vendor == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, cacheKey(vendor)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set serialises the settings and stores them with the configured TTL.
func (c *Cache) Set(ctx context.Context, v VendorSettings) error {
	if c == nil || c.client == nil || v.Vendor == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(v.Vendor), data, c.ttl).Err()
}

// Invalidate drops the cached entry for a vendor after a write.
func (c *Cache) Invalidate(ctx context.Context, vendor string) error {
	if c == nil || c.client == nil || vendor == "" {
		return nil
	}
	return c.client.Del(ctx, cacheKey(vendor)).Err()
}

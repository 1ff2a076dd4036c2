package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

const defaultCouponTTL = time.Minute

// CouponCache is a read-through cache for coupon documents backed by Redis.
// Key format: coupon:<id>. The TTL is short because a coupon's amount changes
// on every purchase; explicit invalidation covers the mutations this process
// performs, the TTL covers everything else.
type CouponCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCouponCache creates a CouponCache wrapping the given Redis client. If
// ttl <= 0, defaultCouponTTL is used.
func NewCouponCache(client *redis.Client, ttl time.Duration) *CouponCache {
	if ttl <= 0 {
		ttl = defaultCouponTTL
	}
	return &CouponCache{client: client, ttl: ttl}
}

// Get returns the cached coupon, or (nil, nil) on a miss.
func (c *CouponCache) Get(ctx context.Context, id int64) (*domain.Coupon, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("coupon cache get: %w", err)
	}

	var coupon domain.Coupon
	if err := json.Unmarshal(raw, &coupon); err != nil {
		return nil, fmt.Errorf("coupon cache decode: %w", err)
	}
	return &coupon, nil
}

// Set stores the coupon for the configured TTL.
func (c *CouponCache) Set(ctx context.Context, coupon *domain.Coupon) error {
	raw, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("coupon cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(coupon.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("coupon cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry, if any.
func (c *CouponCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("coupon cache invalidate: %w", err)
	}
	return nil
}

func (c *CouponCache) key(id int64) string {
	return fmt.Sprintf("coupon:%d", id)
}

package cache

import (
	"context"
	"fmt"
	"time"

	"jewelpos-shopify-sync/internal/ports"

	"github.com/redis/go-redis/v9"
)

// dedupTTL bounds how long a delivery id is remembered. Shopify stops
// retrying a delivery well within this window.
const dedupTTL = 48 * time.Hour

// RedisDeliveryDedup remembers webhook delivery ids in Redis so retried
// deliveries are acknowledged without being re-applied.
type RedisDeliveryDedup struct {
	client *redis.Client
}

// NewRedisDeliveryDedup creates a dedup store over the given Redis client.
func NewRedisDeliveryDedup(client *redis.Client) ports.DeliveryDedup {
	return &RedisDeliveryDedup{client: client}
}

// Seen marks the delivery id and reports whether it had been marked before.
func (d *RedisDeliveryDedup) Seen(ctx context.Context, deliveryID string) (bool, error) {
	set, err := d.client.SetNX(ctx, "webhook:delivery:"+deliveryID, 1, dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("delivery dedup check failed: %w", err)
	}
	return !set, nil
}

// NopDeliveryDedup never reports a duplicate. Used when no Redis is
// configured; the last-writer-wins document store tolerates re-applied
// deliveries.
type NopDeliveryDedup struct{}

func (NopDeliveryDedup) Seen(ctx context.Context, deliveryID string) (bool, error) {
	return false, nil
}

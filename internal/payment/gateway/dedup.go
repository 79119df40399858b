package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/geomarket/payments/pkg/logger"
)

// Deduper filters repeated webhook deliveries. Gateways retry aggressively,
// so the same event commonly arrives more than once.
type Deduper interface {
	// FirstDelivery reports whether this is the first time the event has been
	// seen. It must err on the side of true: a false negative drops a real
	// event, a false positive only costs an idempotent reprocess.
	FirstDelivery(ctx context.Context, provider, eventID string) bool
}

// RedisDeduper implements Deduper with a SETNX key per delivery. Redis being
// unavailable degrades to processing every delivery; the ledger's own state
// machine and unique indexes keep reprocessing harmless.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper retaining delivery markers for ttl.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) FirstDelivery(ctx context.Context, provider, eventID string) bool {
	if d.client == nil || eventID == "" {
		return true
	}

	key := fmt.Sprintf("webhook:seen:%s:%s", provider, eventID)
	first, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		logger.Warn(ctx).Err(err).Str("provider", provider).Str("event_id", eventID).
			Msg("Webhook dedup check failed, processing delivery")
		return true
	}

	return first
}

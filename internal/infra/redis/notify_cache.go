package redis

import (
	"context"
	"time"

	"translator-booking/internal/domain/ports/repository"
)

var _ repository.NotificationDedup = (*NotifyCache)(nil)

// NotifyCache backs the ephemeral notification record with Redis. SETNX with
// a TTL gives the "first write wins inside the window" semantics; expired
// keys simply vanish, so nothing is persisted long-term.
type NotifyCache struct {
	client RedisClient
}

func NewNotifyCache(client RedisClient) *NotifyCache {
	return &NotifyCache{client: client}
}

func (c *NotifyCache) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, "notify:"+key, time.Now().UnixMilli(), ttl)
}

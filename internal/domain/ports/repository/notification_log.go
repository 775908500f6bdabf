package repository

import (
	"context"
	"time"
)

// NotificationDedup makes targeted re-notification idempotent within a short
// window. Keys are ephemeral; implementations expire them after the TTL.
type NotificationDedup interface {
	// MarkSent records the dedup key and reports whether it was newly set.
	// A false return means the same notification went out within the window.
	MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

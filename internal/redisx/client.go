package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Dedup for webhook event processing: dedup:webhook:{event_id}
	keyDedupWebhook = "dedup:webhook:%s"
)

var ttlDedup = 48 * time.Hour

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Dedup records processed payment-event ids so gateway re-deliveries can be
// dropped before any business processing runs.
type Dedup struct {
	RDB *redis.Client
}

// MarkSeen records eventID and reports whether it had been seen before.
// SETNX keeps the check-and-record atomic across instances.
func (d *Dedup) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(keyDedupWebhook, eventID)
	fresh, err := d.RDB.SetNX(ctx, key, 1, ttlDedup).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

// Forget drops a recorded event id so a retried delivery of the same event
// can be processed after a transient failure.
func (d *Dedup) Forget(ctx context.Context, eventID string) error {
	return d.RDB.Del(ctx, fmt.Sprintf(keyDedupWebhook, eventID)).Err()
}

package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// UpdateDeduplicator remembers Telegram update ids so a redelivered update
// is processed once.
type UpdateDeduplicator struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewUpdateDeduplicator creates a new UpdateDeduplicator.
func NewUpdateDeduplicator(client *redis.Client, ttl time.Duration) *UpdateDeduplicator {
	return &UpdateDeduplicator{
		client: client,
		prefix: "update:",
		ttl:    ttl,
	}
}

// FirstSeen atomically marks the update as seen and reports whether this
// call was the first to do so.
func (d *UpdateDeduplicator) FirstSeen(ctx context.Context, updateID int) (bool, error) {
	return d.client.SetNX(ctx, d.prefix+strconv.Itoa(updateID), "1", d.ttl).Result()
}

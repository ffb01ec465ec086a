package eventpublisher

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/pocketledger/internal/domain"
)

// RedisPublisher publishes events as JSON on a Redis Pub/Sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish sends the event. Having no subscribers is not an error.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.Event) error {
	body, err := marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

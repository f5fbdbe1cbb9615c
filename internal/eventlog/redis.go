package eventlog

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultChannel = "warehouse:events"

// RedisLog publishes events to a Redis pub/sub channel via PUBLISH. It
// carries no consumer-side state and keeps no history: a subscriber that
// isn't listening simply misses the event, which is acceptable for a
// non-authoritative side channel.
type RedisLog struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// RedisLogOption configures a RedisLog at construction.
type RedisLogOption func(*RedisLog)

// WithChannel overrides the default "warehouse:events" pub/sub channel.
func WithChannel(channel string) RedisLogOption {
	return func(r *RedisLog) { r.channel = channel }
}

// NewRedisLog returns a RedisLog whose client targets addr. It does not
// contact the server; the client connects on the first Publish. db follows
// go-redis' database-index convention.
func NewRedisLog(addr string, db int, log *zap.Logger, opts ...RedisLogOption) *RedisLog {
	r := &RedisLog{
		client:  redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		channel: defaultChannel,
		log:     log.Named("eventlog_redis"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish marshals evt to JSON and publishes it on the configured channel.
func (r *RedisLog) Publish(ctx context.Context, evt Event) error {
	payload, err := MarshalEvent(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (r *RedisLog) Close() error { return r.client.Close() }

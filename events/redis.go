package events

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/swapvault/swapd/errors"
)

// DefaultRedisChannel is the pub/sub channel events are published on.
const DefaultRedisChannel = "swapd:events"

// redisPublisher is the part of the redis client the sink relies on.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes every message as JSON on a redis pub/sub channel.
type RedisSink struct {
	rdb     redisPublisher
	channel string
	closer  func() error
}

// NewRedisSink connects to the redis server at addr and verifies the
// connection.
func NewRedisSink(ctx context.Context, addr, channel string) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "redis: ping %s: %s", addr, err)
	}
	s := newRedisSink(rdb, channel)
	s.closer = rdb.Close
	return s, nil
}

func newRedisSink(rdb redisPublisher, channel string) *RedisSink {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisSink{rdb: rdb, channel: channel, closer: func() error { return nil }}
}

func (RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, msgs []Message) error {
	for _, m := range msgs {
		payload, err := m.Marshal()
		if err != nil {
			return err
		}
		if err := s.rdb.Publish(ctx, s.channel, payload).Err(); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "redis: publish %s: %s", s.channel, err)
		}
	}
	return nil
}

// Close releases the redis connection pool.
func (s *RedisSink) Close() error {
	return s.closer()
}

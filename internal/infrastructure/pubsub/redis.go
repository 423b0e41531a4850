package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisHub broadcasts through Redis PUBLISH/SUBSCRIBE so that every API
// instance sharing the Redis server sees every event. Topics are prefixed
// with the configured channel prefix.
type RedisHub struct {
	client *redis.Client
	prefix string

	done chan struct{}
	once sync.Once
}

// NewRedisHub uses an existing client; Close does not close the client
func NewRedisHub(client *redis.Client, prefix string) *RedisHub {
	return &RedisHub{
		client: client,
		prefix: prefix,
		done:   make(chan struct{}),
	}
}

func (h *RedisHub) channel(topic string) string {
	return h.prefix + topic
}

func (h *RedisHub) Publish(ctx context.Context, topic string, payload []byte) error {
	select {
	case <-h.done:
		return ErrClosed
	default:
	}

	if err := h.client.Publish(ctx, h.channel(topic), payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	select {
	case <-h.done:
		return nil, ErrClosed
	default:
	}

	ps := h.client.Subscribe(ctx, h.channel(topic))
	// wait for the subscription confirmation so no publish is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", topic, err)
	}

	messages := ps.Channel(redis.WithChannelSize(subscriptionBuffer))
	out := make(chan []byte)

	go func() {
		defer close(out)
		defer func() {
			if err := ps.Close(); err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("[PUBSUB] Failed to close redis subscription")
			}
		}()

		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				case <-h.done:
					return
				}
			case <-ctx.Done():
				return
			case <-h.done:
				return
			}
		}
	}()

	return out, nil
}

func (h *RedisHub) HealthCheck(ctx context.Context) error {
	if err := h.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (h *RedisHub) Close() error {
	h.once.Do(func() { close(h.done) })
	return nil
}

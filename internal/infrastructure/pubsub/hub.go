// Package pubsub provides the topic-based notification hub behind GraphQL
// subscriptions. Every implementation broadcasts: each active subscriber
// receives every payload published after it subscribed.
package pubsub

import (
	"context"
	"errors"
)

// ErrClosed is returned by Publish and Subscribe after Close
var ErrClosed = errors.New("pubsub: hub closed")

// Hub publishes payloads to topics and hands out subscriptions.
// A subscription channel is closed when its context ends or the hub closes.
type Hub interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) (<-chan []byte, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// subscriptionBuffer is the per-subscriber channel capacity
const subscriptionBuffer = 16

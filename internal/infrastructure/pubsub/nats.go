package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig for the NATS hub connection
type NATSConfig struct {
	URL           string
	ClientName    string
	MaxReconnects int
	ReconnectWait time.Duration
	SubjectPrefix string
}

// NATSHub broadcasts over core NATS subjects
type NATSHub struct {
	conn   *nats.Conn
	prefix string

	done chan struct{}
	once sync.Once
}

// NewNATSHub connects to the server in cfg
func NewNATSHub(cfg NATSConfig) (*NATSHub, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("[PUBSUB] NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("[PUBSUB] NATS reconnected")
		}),
	}
	if cfg.ClientName != "" {
		opts = append(opts, nats.Name(cfg.ClientName))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	log.Info().Str("url", conn.ConnectedUrl()).Msg("[PUBSUB] NATS connected")
	return newNATSHub(conn, cfg.SubjectPrefix), nil
}

func newNATSHub(conn *nats.Conn, prefix string) *NATSHub {
	return &NATSHub{
		conn:   conn,
		prefix: prefix,
		done:   make(chan struct{}),
	}
}

func (h *NATSHub) subject(topic string) string {
	return h.prefix + topic
}

func (h *NATSHub) Publish(_ context.Context, topic string, payload []byte) error {
	select {
	case <-h.done:
		return ErrClosed
	default:
	}

	if err := h.conn.Publish(h.subject(topic), payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", topic, err)
	}
	return nil
}

func (h *NATSHub) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	select {
	case <-h.done:
		return nil, ErrClosed
	default:
	}

	// msgs is never closed; only the forwarding goroutine closes out
	msgs := make(chan *nats.Msg, subscriptionBuffer)
	sub, err := h.conn.ChanSubscribe(h.subject(topic), msgs)
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", topic, err)
	}
	if err := h.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("nats subscribe %s: %w", topic, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
				log.Warn().Err(err).Str("topic", topic).Msg("[PUBSUB] Failed to unsubscribe")
			}
		}()

		for {
			select {
			case msg := <-msgs:
				select {
				case out <- msg.Data:
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

func (h *NATSHub) HealthCheck(context.Context) error {
	if !h.conn.IsConnected() {
		return fmt.Errorf("nats not connected: %s", h.conn.Status())
	}
	return nil
}

// Close ends subscriptions and drains the connection
func (h *NATSHub) Close() error {
	var err error
	h.once.Do(func() {
		close(h.done)
		err = h.conn.Drain()
	})
	return err
}

package pubsub

import (
	"context"
	"sync"
)

type memorySubscriber struct {
	inbox chan []byte
	done  chan struct{}
}

// MemoryHub is an in-process hub. Publish delivers to all subscribers
// concurrently, so a subscriber that stops reading delays only itself.
type MemoryHub struct {
	mu     sync.RWMutex
	subs   map[string]map[*memorySubscriber]struct{}
	closed bool
	done   chan struct{}
	once   sync.Once
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		subs: make(map[string]map[*memorySubscriber]struct{}),
		done: make(chan struct{}),
	}
}

// Publish blocks until every current subscriber has the payload buffered,
// has gone away, or ctx ends.
func (h *MemoryHub) Publish(ctx context.Context, topic string, payload []byte) error {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrClosed
	}
	targets := make([]*memorySubscriber, 0, len(h.subs[topic]))
	for s := range h.subs[topic] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup
	for _, s := range targets {
		wg.Add(1)
		go func(s *memorySubscriber) {
			defer wg.Done()
			select {
			case s.inbox <- payload:
			case <-s.done:
			case <-ctx.Done():
			}
		}(s)
	}
	wg.Wait()

	return ctx.Err()
}

func (h *MemoryHub) Subscribe(ctx context.Context, topic string) (<-chan []byte, error) {
	s := &memorySubscriber{
		inbox: make(chan []byte, subscriptionBuffer),
		done:  make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*memorySubscriber]struct{})
	}
	h.subs[topic][s] = struct{}{}
	h.mu.Unlock()

	out := make(chan []byte)
	go func() {
		defer func() {
			h.remove(topic, s)
			close(s.done)
			close(out)
		}()

		for {
			select {
			case payload := <-s.inbox:
				select {
				case out <- payload:
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

// Subscribers reports the number of active subscriptions on topic
func (h *MemoryHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

func (h *MemoryHub) remove(topic string, s *memorySubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[topic], s)
	if len(h.subs[topic]) == 0 {
		delete(h.subs, topic)
	}
}

func (h *MemoryHub) HealthCheck(context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	return nil
}

// Close ends every subscription. Safe to call more than once.
func (h *MemoryHub) Close() error {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		close(h.done)
	})
	return nil
}

package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/pubsub"
	"library-backend/internal/shared/metrics"
)

// TopicBookAdded carries one JSON-encoded book per successful addBook
const TopicBookAdded = "BOOK_ADDED"

// DefaultPublishTimeout bounds a single background publish
const DefaultPublishTimeout = 5 * time.Second

// HubNotifier is the book.EventSink that publishes on the notification hub.
// Publishing happens on a background goroutine; errors are logged and counted.
type HubNotifier struct {
	hub     pubsub.Hub
	metrics *metrics.Metrics
	timeout time.Duration

	wg sync.WaitGroup
}

func NewHubNotifier(hub pubsub.Hub, m *metrics.Metrics) *HubNotifier {
	return &HubNotifier{
		hub:     hub,
		metrics: m,
		timeout: DefaultPublishTimeout,
	}
}

// WithTimeout overrides DefaultPublishTimeout; non-positive values are ignored
func (n *HubNotifier) WithTimeout(d time.Duration) *HubNotifier {
	if d > 0 {
		n.timeout = d
	}
	return n
}

func (n *HubNotifier) BookAdded(ctx context.Context, b *book.Book) {
	n.metrics.BookAdded()

	payload, err := EncodeBook(b)
	if err != nil {
		n.fail(err, b)
		return
	}

	// detached from the request so a finished response does not cancel it
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()

		if err := n.hub.Publish(pubCtx, TopicBookAdded, payload); err != nil {
			n.fail(err, b)
		}
	}()
}

// Wait blocks until in-flight publishes finish
func (n *HubNotifier) Wait() {
	n.wg.Wait()
}

func (n *HubNotifier) fail(err error, b *book.Book) {
	n.metrics.PublishFailed(TopicBookAdded)
	log.Error().Err(err).
		Str("topic", TopicBookAdded).
		Str("book_id", b.ID.String()).
		Msg("[NOTIFIER] Failed to publish book added event")
}

// EncodeBook is the wire format of TopicBookAdded
func EncodeBook(b *book.Book) ([]byte, error) {
	return json.Marshal(b)
}

// DecodeBook reverses EncodeBook
func DecodeBook(payload []byte) (*book.Book, error) {
	var b book.Book
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/shared/metrics"
)

// TaskNotifier is the book.EventSink used when durable delivery is on.
// It enqueues a TypeBookAdded task that the worker relays onto the hub,
// so delivery survives a hub outage at the cost of possible duplicates.
type TaskNotifier struct {
	client   queue.Enqueuer
	metrics  *metrics.Metrics
	timeout  time.Duration
	maxRetry int

	wg sync.WaitGroup
}

func NewTaskNotifier(client queue.Enqueuer, m *metrics.Metrics, maxRetry int) *TaskNotifier {
	return &TaskNotifier{
		client:   client,
		metrics:  m,
		timeout:  DefaultPublishTimeout,
		maxRetry: maxRetry,
	}
}

// NewBookAddedTask wraps the encoded book as an asynq task
func NewBookAddedTask(b *book.Book) (*asynq.Task, error) {
	payload, err := EncodeBook(b)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(queue.TypeBookAdded, payload), nil
}

func (n *TaskNotifier) BookAdded(ctx context.Context, b *book.Book) {
	n.metrics.BookAdded()

	task, err := NewBookAddedTask(b)
	if err != nil {
		n.fail(err, b)
		return
	}

	enqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()

		info, err := n.client.EnqueueContext(enqCtx, task,
			asynq.Queue(queue.QueueEvents),
			asynq.MaxRetry(n.maxRetry),
			asynq.Timeout(30*time.Second),
		)
		if err != nil {
			n.fail(err, b)
			return
		}
		log.Debug().Str("task_id", info.ID).Str("book_id", b.ID.String()).Msg("[NOTIFIER] Enqueued book added task")
	}()
}

// Wait blocks until in-flight enqueues finish
func (n *TaskNotifier) Wait() {
	n.wg.Wait()
}

func (n *TaskNotifier) fail(err error, b *book.Book) {
	n.metrics.PublishFailed(queue.TypeBookAdded)
	log.Error().Err(err).
		Str("task", queue.TypeBookAdded).
		Str("book_id", b.ID.String()).
		Msg("[NOTIFIER] Failed to enqueue book added task")
}

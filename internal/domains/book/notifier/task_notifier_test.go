package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/shared/metrics"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestTaskNotifier_Enqueues(t *testing.T) {
	client := &recordingEnqueuer{}
	n := NewTaskNotifier(client, metrics.New(), 3)

	b := sampleBook()
	n.BookAdded(context.Background(), b)
	n.Wait()

	require.Len(t, client.tasks, 1)
	assert.Equal(t, queue.TypeBookAdded, client.tasks[0].Type())

	decoded, err := DecodeBook(client.tasks[0].Payload())
	require.NoError(t, err)
	assert.Equal(t, b.Title, decoded.Title)
	assert.Equal(t, b.Author.Name, decoded.Author.Name)
}

func TestTaskNotifier_FailureIsCounted(t *testing.T) {
	m := metrics.New()
	n := NewTaskNotifier(&recordingEnqueuer{err: errors.New("redis down")}, m, 3)

	ctx, cancel := context.WithCancel(context.Background())
	n.BookAdded(ctx, sampleBook())
	cancel()
	n.Wait()

	count, err := testutil.GatherAndCount(m.Registry(), "library_event_publish_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

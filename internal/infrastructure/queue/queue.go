// Package queue holds the asynq task names, queues and client plumbing
// shared by the API and the worker.
package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeBookAdded    = "catalog:book_added"
	TypeCatalogStats = "catalog:stats"
)

// Queues and their worker priorities
const (
	QueueEvents      = "events"
	QueueMaintenance = "maintenance"
)

// Priorities weights the queues for asynq.Config.Queues
func Priorities() map[string]int {
	return map[string]int{
		QueueEvents:      10,
		QueueMaintenance: 1,
	}
}

// RedisOpt builds the asynq connection from the Redis settings
func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
}

// Enqueuer is the part of *asynq.Client producers use
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

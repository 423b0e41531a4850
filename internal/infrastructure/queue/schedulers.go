package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redis asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterStatsJob schedules the catalog statistics snapshot. An empty
// cron expression leaves it unscheduled.
func (s *Scheduler) RegisterStatsJob(cronSpec string) error {
	if cronSpec == "" {
		logger.Info("CatalogStats job disabled", map[string]interface{}{})
		return nil
	}

	task := asynq.NewTask(TypeCatalogStats, nil)

	_, err := s.scheduler.Register(
		cronSpec,
		task,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CatalogStats job", err)
		return err
	}

	logger.Info("Registered CatalogStats", map[string]interface{}{"cron": cronSpec})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// Package job runs background work on Asynq.
//
// Asynq is a Redis-backed queue:
//   - producers enqueue tasks through JobService.Client,
//   - the asynq.Server inside JobService executes them with a bounded pool.
//
// Periodic work is not scheduled by Asynq itself. The Scheduler in this
// package fires on robfig/cron intervals and only enqueues.
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give sync work more of the pool than email:
//
//	critical: 6 (token maintenance)
//	default:  3 (provider sync)
//	low:      1 (email)
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Jobs.Concurrency,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.InfoLevel,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error().
					Err(err).
					Str("task", task.Type()).
					Int("retry", retried).
					Int("max_retry", maxRetry).
					Msg("background task failed")
			}),
		},
	)

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
		logger: logger,
	}
}

// Handle registers h for a task type. Must be called before Start.
func (j *JobService) Handle(taskType string, h asynq.HandlerFunc) {
	j.mux.HandleFunc(taskType, h)
}

// Start launches the workers in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	if err := j.server.Start(j.mux); err != nil {
		return fmt.Errorf("start job server: %w", err)
	}
	return nil
}

// Enqueue pushes a task. A duplicate of a unique task still pending is not
// an error; it reports enqueued=false.
func (j *JobService) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (bool, error) {
	info, err := j.Client.EnqueueContext(ctx, task, opts...)
	switch {
	case errors.Is(err, asynq.ErrDuplicateTask), errors.Is(err, asynq.ErrTaskIDConflict):
		j.logger.Debug().Str("task", task.Type()).Msg("task already queued")
		return false, nil
	case err != nil:
		return false, fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}

	j.logger.Debug().Str("task", task.Type()).Str("task_id", info.ID).Str("queue", info.Queue).Msg("task enqueued")
	return true, nil
}

// Stop waits for running tasks, then closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger adapts zerolog to asynq.Logger.
type asynqLogger struct {
	logger zerolog.Logger
}

func newAsynqLogger(logger *zerolog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.With().Str("component", "asynq").Logger()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }

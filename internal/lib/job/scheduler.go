package job

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Enqueuer is implemented by *JobService.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (bool, error)
}

// Periodic is one fixed-interval job.
type Periodic struct {
	TaskType string
	Every    time.Duration
	entryID  cron.EntryID
}

// PeriodicJobs lists the fixed-interval jobs for cfg.
func PeriodicJobs(cfg config.JobsConfig) []Periodic {
	return []Periodic{
		{TaskType: TaskRemoveExpiredTokens, Every: cfg.RemoveExpiredTokensEvery},
		{TaskType: TaskRefreshStravaTokens, Every: cfg.RefreshStravaTokensEvery},
		{TaskType: TaskStravaActivities, Every: cfg.StravaActivitiesEvery},
		{TaskType: TaskGarminActivities, Every: cfg.GarminActivitiesEvery},
		{TaskType: TaskGarminHealth, Every: cfg.GarminHealthEvery},
	}
}

// Scheduler enqueues each periodic job on its interval. A tick never runs
// the job itself; the task is unique for one interval so a slow run is not
// queued twice.
type Scheduler struct {
	cron   *cron.Cron
	queue  Enqueuer
	jobs   []Periodic
	logger zerolog.Logger
}

func NewScheduler(queue Enqueuer, cfg config.JobsConfig, logger *zerolog.Logger) (*Scheduler, error) {
	l := logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: l}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		queue:  queue,
		logger: l,
	}

	for _, p := range PeriodicJobs(cfg) {
		if p.Every < time.Second {
			return nil, fmt.Errorf("job %s: interval %s is shorter than one second", p.TaskType, p.Every)
		}
		id, err := s.cron.AddFunc("@every "+p.Every.String(), s.tick(p.TaskType, p.Every))
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", p.TaskType, err)
		}
		p.entryID = id
		s.jobs = append(s.jobs, p)
	}

	return s, nil
}

func (s *Scheduler) tick(taskType string, every time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		queued, err := s.queue.Enqueue(ctx, NewPeriodicTask(taskType, every))
		if err != nil {
			s.logger.Error().Err(err).Str("task", taskType).Msg("failed to enqueue periodic task")
			return
		}
		if queued {
			s.logger.Debug().Str("task", taskType).Msg("periodic task enqueued")
		}
	}
}

// Jobs returns the registered jobs with their intervals.
func (s *Scheduler) Jobs() []Periodic {
	out := make([]Periodic, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Next is the next fire time of a registered task type.
func (s *Scheduler) Next(taskType string) (time.Time, bool) {
	for _, p := range s.jobs {
		if p.TaskType == taskType {
			return s.cron.Entry(p.entryID).Next, true
		}
	}
	return time.Time{}, false
}

func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("starting scheduler")
	s.cron.Start()
}

// Stop prevents new ticks and waits for running ones, up to ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

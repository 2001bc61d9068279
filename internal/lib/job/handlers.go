package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/gearguardian/internal/integration"
	"github.com/deppfellow/gearguardian/internal/lib/garmin"
	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/observability"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type TokenCleaner interface {
	RemoveExpired(ctx context.Context) (int64, error)
}

// Syncer is implemented by *integration.Service.
type Syncer interface {
	RefreshStravaTokens(ctx context.Context) (int, error)
	ImportStravaActivities(ctx context.Context, lookback time.Duration) (int, error)
	ImportGarminActivities(ctx context.Context) (int, error)
	ImportGarminHealth(ctx context.Context) (int, error)
	SyncStravaGear(ctx context.Context, userID int64) ([]model.Gear, error)
	SyncGarminGear(ctx context.Context, userID int64) ([]model.Gear, error)
	ImportStravaActivitiesForUser(ctx context.Context, userID int64, since time.Time) (int, error)
	ImportGarminActivitiesForUser(ctx context.Context, userID int64, since time.Time) (int, error)
}

type Mailer interface {
	SendWelcomeEmail(ctx context.Context, to, name, username string) error
}

// Handlers executes every task type.
type Handlers struct {
	tokens   TokenCleaner
	sync     Syncer
	mail     Mailer
	lookback time.Duration
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewHandlers(tokens TokenCleaner, sync Syncer, mail Mailer, lookback time.Duration, logger *zerolog.Logger) *Handlers {
	return &Handlers{
		tokens:   tokens,
		sync:     sync,
		mail:     mail,
		lookback: lookback,
		logger:   logger,
		now:      time.Now,
	}
}

// Register binds every handler on j.
func (h *Handlers) Register(j *JobService) {
	for taskType, fn := range h.routes() {
		j.Handle(taskType, h.instrument(taskType, fn))
	}
}

func (h *Handlers) routes() map[string]asynq.HandlerFunc {
	return map[string]asynq.HandlerFunc{
		TaskRemoveExpiredTokens:  h.handleRemoveExpiredTokens,
		TaskRefreshStravaTokens:  h.handleRefreshStravaTokens,
		TaskStravaActivities:     h.handleStravaActivities,
		TaskGarminActivities:     h.handleGarminActivities,
		TaskGarminHealth:         h.handleGarminHealth,
		TaskUserStravaGear:       h.handleUserStravaGear,
		TaskUserStravaActivities: h.handleUserStravaActivities,
		TaskUserGarminGear:       h.handleUserGarminGear,
		TaskUserGarminActivities: h.handleUserGarminActivities,
		TaskWelcome:              h.handleWelcomeEmailTask,
	}
}

func (h *Handlers) instrument(taskType string, fn asynq.HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		started := time.Now()
		err := fn(ctx, t)
		observability.RecordJobRun(taskType, started, err)

		event := h.logger.Info()
		if err != nil {
			event = h.logger.Error().Err(err)
		}
		event.Str("task", taskType).Dur("took", time.Since(started)).Msg("task finished")
		return err
	}
}

func (h *Handlers) handleRemoveExpiredTokens(ctx context.Context, _ *asynq.Task) error {
	n, err := h.tokens.RemoveExpired(ctx)
	if err != nil {
		return err
	}
	h.logger.Info().Int64("removed", n).Msg("expired access tokens removed")
	return nil
}

func (h *Handlers) handleRefreshStravaTokens(ctx context.Context, _ *asynq.Task) error {
	n, err := h.sync.RefreshStravaTokens(ctx)
	if err != nil {
		return err
	}
	h.logger.Info().Int("users", n).Msg("strava tokens refreshed")
	return nil
}

func (h *Handlers) handleStravaActivities(ctx context.Context, _ *asynq.Task) error {
	_, err := h.sync.ImportStravaActivities(ctx, h.lookback)
	return err
}

func (h *Handlers) handleGarminActivities(ctx context.Context, _ *asynq.Task) error {
	_, err := h.sync.ImportGarminActivities(ctx)
	return err
}

func (h *Handlers) handleGarminHealth(ctx context.Context, _ *asynq.Task) error {
	_, err := h.sync.ImportGarminHealth(ctx)
	return err
}

func decodeUserImport(t *asynq.Task) (UserImportPayload, error) {
	var p UserImportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if p.UserID <= 0 {
		return p, fmt.Errorf("%s payload without user: %w", t.Type(), asynq.SkipRetry)
	}
	return p, nil
}

// permanent marks errors that retrying cannot fix.
func permanent(err error) error {
	if errors.Is(err, integration.ErrNotLinked) || errors.Is(err, garmin.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

func (h *Handlers) handleUserStravaGear(ctx context.Context, t *asynq.Task) error {
	p, err := decodeUserImport(t)
	if err != nil {
		return err
	}
	created, err := h.sync.SyncStravaGear(ctx, p.UserID)
	if err != nil {
		return permanent(err)
	}
	h.logger.Info().Int64("user_id", p.UserID).Int("created", len(created)).Msg("strava gear imported")
	return nil
}

func (h *Handlers) handleUserGarminGear(ctx context.Context, t *asynq.Task) error {
	p, err := decodeUserImport(t)
	if err != nil {
		return err
	}
	created, err := h.sync.SyncGarminGear(ctx, p.UserID)
	if err != nil {
		return permanent(err)
	}
	h.logger.Info().Int64("user_id", p.UserID).Int("created", len(created)).Msg("garmin connect gear imported")
	return nil
}

func (h *Handlers) since(days int) time.Time {
	return h.now().AddDate(0, 0, -days)
}

func (h *Handlers) handleUserStravaActivities(ctx context.Context, t *asynq.Task) error {
	p, err := decodeUserImport(t)
	if err != nil {
		return err
	}
	if _, err := h.sync.ImportStravaActivitiesForUser(ctx, p.UserID, h.since(p.Days)); err != nil {
		return permanent(err)
	}
	return nil
}

func (h *Handlers) handleUserGarminActivities(ctx context.Context, t *asynq.Task) error {
	p, err := decodeUserImport(t)
	if err != nil {
		return err
	}
	if _, err := h.sync.ImportGarminActivitiesForUser(ctx, p.UserID, h.since(p.Days)); err != nil {
		return permanent(err)
	}
	return nil
}

func (h *Handlers) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %v: %w", err, asynq.SkipRetry)
	}

	h.logger.Info().Str("type", "welcome").Str("to", p.To).Msg("Processing welcome email task")

	if err := h.mail.SendWelcomeEmail(ctx, p.To, p.Name, p.Username); err != nil {
		return err
	}

	h.logger.Info().Str("type", "welcome").Str("to", p.To).Msg("Successfully sent welcome email")
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activityColumns = `id, user_id, name, distance, description, activity_type, start_time, end_time,
	timezone, total_elapsed_time, total_timer_time, elevation_gain, elevation_loss, pace,
	average_speed, average_power, calories, visibility, gear_id, strava_gear_id,
	strava_activity_id, garminconnect_activity_id, garminconnect_gear_id, created_at`

const insertActivity = `INSERT INTO activities (user_id, name, distance, description, activity_type,
	start_time, end_time, timezone, total_elapsed_time, total_timer_time, elevation_gain,
	elevation_loss, pace, average_speed, average_power, calories, visibility, gear_id,
	strava_gear_id, strava_activity_id, garminconnect_activity_id, garminconnect_gear_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
	$19, $20, $21, $22)
	RETURNING ` + activityColumns

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) list(ctx context.Context, query string, args ...any) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Activity])
}

func (r *ActivityRepository) Count(ctx context.Context, userID int64) (int64, error) {
	return count(ctx, r.pool, `SELECT COUNT(*) FROM activities WHERE user_id = $1`, userID)
}

func (r *ActivityRepository) List(ctx context.Context, userID int64, page model.Page) ([]model.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities WHERE user_id = $1
		ORDER BY start_time DESC LIMIT $2 OFFSET $3`, userID, page.NumRecords, page.Offset())
}

// ListBetween returns activities that started in [from, to).
func (r *ActivityRepository) ListBetween(ctx context.Context, userID int64, from, to time.Time) ([]model.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities WHERE user_id = $1
		AND start_time >= $2 AND start_time < $3 ORDER BY start_time DESC`, userID, from, to)
}

func (r *ActivityRepository) ListByGear(ctx context.Context, userID, gearID int64) ([]model.Activity, error) {
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities WHERE user_id = $1 AND gear_id = $2
		ORDER BY start_time DESC`, userID, gearID)
}

// ListWithProviderGear returns the user's activities that carry a gear id
// from the given provider.
func (r *ActivityRepository) ListWithProviderGear(ctx context.Context, userID int64, provider model.Provider) ([]model.Activity, error) {
	column, err := providerGearColumn(provider)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, `SELECT `+activityColumns+` FROM activities WHERE user_id = $1
		AND `+column+` IS NOT NULL AND `+column+` <> '' ORDER BY start_time DESC`, userID)
}

func providerGearColumn(provider model.Provider) (string, error) {
	switch provider {
	case model.ProviderStrava:
		return "strava_gear_id", nil
	case model.ProviderGarminConnect:
		return "garminconnect_gear_id", nil
	}
	return "", fmt.Errorf("unknown provider %q", provider)
}

// GetByID loads an activity regardless of owner; callers check visibility.
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	activity, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Activity])
	if err != nil {
		return nil, sqlerr.WithTable(err, "activities")
	}
	return activity, nil
}

func insertActivityArgs(a *model.Activity) []any {
	return []any{
		a.UserID, a.Name, a.Distance, a.Description, a.ActivityType,
		a.StartTime, a.EndTime, a.Timezone, a.TotalElapsedTime, a.TotalTimerTime,
		a.ElevationGain, a.ElevationLoss, a.Pace, a.AverageSpeed, a.AveragePower,
		a.Calories, a.Visibility, a.GearID, a.StravaGearID, a.StravaActivityID,
		a.GarminConnectActivityID, a.GarminConnectGearID,
	}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) (*model.Activity, error) {
	return r.CreateWithStreams(ctx, activity, nil)
}

// CreateWithStreams inserts the activity and its streams in one transaction.
func (r *ActivityRepository) CreateWithStreams(ctx context.Context, activity *model.Activity, streams []model.ActivityStream) (*model.Activity, error) {
	var created *model.Activity
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, insertActivity, insertActivityArgs(activity)...)
		if err != nil {
			return err
		}
		created, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Activity])
		if err != nil {
			return err
		}
		for i := range streams {
			streams[i].ActivityID = created.ID
		}
		return insertStreams(ctx, tx, streams)
	})
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return created, nil
}

// SetGear sets or clears (nil) the gear of one activity.
func (r *ActivityRepository) SetGear(ctx context.Context, activityID int64, gearID *int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE activities SET gear_id = $2 WHERE id = $1`, activityID, gearID)
	if err != nil {
		return fmt.Errorf("set activity gear: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(pgx.ErrNoRows, "activities")
	}
	return nil
}

// UpdateGearIDs persists the gear_id of every activity in one transaction.
func (r *ActivityRepository) UpdateGearIDs(ctx context.Context, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, a := range activities {
			batch.Queue(`UPDATE activities SET gear_id = $2 WHERE id = $1`, a.ID, a.GearID)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(pgx.ErrNoRows, "activities")
	}
	return nil
}

// KnownProviderIDs returns which of ids are already stored for the provider.
func (r *ActivityRepository) KnownProviderIDs(ctx context.Context, provider model.Provider, ids []int64) (map[int64]bool, error) {
	var column string
	switch provider {
	case model.ProviderStrava:
		column = "strava_activity_id"
	case model.ProviderGarminConnect:
		column = "garminconnect_activity_id"
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	known := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return known, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+column+` FROM activities WHERE `+column+` = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query known activities: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan known activities: %w", err)
	}
	for _, id := range found {
		known[id] = true
	}
	return known, nil
}

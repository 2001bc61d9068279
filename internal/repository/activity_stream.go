package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const streamColumns = `id, activity_id, stream_type, stream_waypoints, strava_activity_stream_id`

type ActivityStreamRepository struct {
	pool *pgxpool.Pool
}

func NewActivityStreamRepository(pool *pgxpool.Pool) *ActivityStreamRepository {
	return &ActivityStreamRepository{pool: pool}
}

func (r *ActivityStreamRepository) ListByActivity(ctx context.Context, activityID int64) ([]model.ActivityStream, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+streamColumns+` FROM activities_streams
		WHERE activity_id = $1 ORDER BY stream_type`, activityID)
	if err != nil {
		return nil, fmt.Errorf("query activity streams: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.ActivityStream])
}

func (r *ActivityStreamRepository) GetByType(ctx context.Context, activityID int64, streamType model.StreamType) (*model.ActivityStream, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+streamColumns+` FROM activities_streams
		WHERE activity_id = $1 AND stream_type = $2`, activityID, streamType)
	if err != nil {
		return nil, fmt.Errorf("query activity stream: %w", err)
	}
	stream, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.ActivityStream])
	if err != nil {
		return nil, sqlerr.WithTable(err, "activities_streams")
	}
	return stream, nil
}

// CreateMany stores streams for an existing activity.
func (r *ActivityStreamRepository) CreateMany(ctx context.Context, streams []model.ActivityStream) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertStreams(ctx, tx, streams)
	})
}

func insertStreams(ctx context.Context, q querier, streams []model.ActivityStream) error {
	const stmt = `INSERT INTO activities_streams (activity_id, stream_type, stream_waypoints, strava_activity_stream_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (activity_id, stream_type) DO NOTHING`

	for _, s := range streams {
		if _, err := q.Exec(ctx, stmt, s.ActivityID, s.StreamType, s.StreamWaypoints, s.StravaActivityStreamID); err != nil {
			return fmt.Errorf("insert activity stream: %w", err)
		}
	}
	return nil
}

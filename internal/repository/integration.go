package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const integrationColumns = `id, user_id, strava_state, strava_token, strava_refresh_token,
	strava_token_expires_at, strava_sync_gear, garminconnect_oauth1, garminconnect_oauth2,
	garminconnect_sync_gear, updated_at`

type IntegrationRepository struct {
	pool *pgxpool.Pool
}

func NewIntegrationRepository(pool *pgxpool.Pool) *IntegrationRepository {
	return &IntegrationRepository{pool: pool}
}

func (r *IntegrationRepository) list(ctx context.Context, query string, args ...any) ([]model.UserIntegration, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query integrations: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.UserIntegration])
}

// GetByUserID returns the user's integration row, creating an empty one
// for users that predate it.
func (r *IntegrationRepository) GetByUserID(ctx context.Context, userID int64) (*model.UserIntegration, error) {
	const stmt = `INSERT INTO users_integrations (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + integrationColumns

	rows, err := r.pool.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("query integration: %w", err)
	}
	integration, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.UserIntegration])
	if err != nil {
		return nil, sqlerr.WithTable(err, "users_integrations")
	}
	return integration, nil
}

// GetByStravaState finds the integration waiting for the OAuth callback
// that carries state.
func (r *IntegrationRepository) GetByStravaState(ctx context.Context, state string) (*model.UserIntegration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+integrationColumns+` FROM users_integrations
		WHERE strava_state = $1`, state)
	if err != nil {
		return nil, fmt.Errorf("query integration: %w", err)
	}
	integration, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.UserIntegration])
	if err != nil {
		return nil, sqlerr.WithTable(err, "users_integrations")
	}
	return integration, nil
}

func (r *IntegrationRepository) update(ctx context.Context, userID int64, set string, args ...any) error {
	stmt := fmt.Sprintf(`UPDATE users_integrations SET %s, updated_at = NOW() WHERE user_id = $1`, set)
	tag, err := r.pool.Exec(ctx, stmt, append([]any{userID}, args...)...)
	if err != nil {
		return fmt.Errorf("update integration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(pgx.ErrNoRows, "users_integrations")
	}
	return nil
}

func (r *IntegrationRepository) SetStravaState(ctx context.Context, userID int64, state *string) error {
	return r.update(ctx, userID, `strava_state = $2`, state)
}

// SetStravaTokens stores a token triple and clears the pending link state.
func (r *IntegrationRepository) SetStravaTokens(ctx context.Context, userID int64, tokens model.StravaTokens) error {
	return r.update(ctx, userID,
		`strava_token = $2, strava_refresh_token = $3, strava_token_expires_at = $4, strava_state = NULL`,
		tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresAt)
}

// UnlinkStrava clears the Strava tokens and, in the same transaction,
// detaches Strava ids from the user's gear and activities.
func (r *IntegrationRepository) UnlinkStrava(ctx context.Context, userID int64) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE users_integrations SET strava_state = NULL, strava_token = NULL,
			strava_refresh_token = NULL, strava_token_expires_at = NULL, strava_sync_gear = FALSE,
			updated_at = NOW() WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE gear SET strava_gear_id = NULL WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE activities SET strava_gear_id = NULL WHERE user_id = $1`, userID)
		return err
	})
}

func (r *IntegrationRepository) SetGarminConnectTokens(ctx context.Context, userID int64, oauth1, oauth2 json.RawMessage) error {
	return r.update(ctx, userID, `garminconnect_oauth1 = $2, garminconnect_oauth2 = $3`, oauth1, oauth2)
}

func (r *IntegrationRepository) UnlinkGarminConnect(ctx context.Context, userID int64) error {
	return r.update(ctx, userID,
		`garminconnect_oauth1 = NULL, garminconnect_oauth2 = NULL, garminconnect_sync_gear = FALSE`)
}

func (r *IntegrationRepository) SetStravaSyncGear(ctx context.Context, userID int64, enabled bool) error {
	return r.update(ctx, userID, `strava_sync_gear = $2`, enabled)
}

func (r *IntegrationRepository) SetGarminConnectSyncGear(ctx context.Context, userID int64, enabled bool) error {
	return r.update(ctx, userID, `garminconnect_sync_gear = $2`, enabled)
}

func (r *IntegrationRepository) ListStravaLinked(ctx context.Context) ([]model.UserIntegration, error) {
	return r.list(ctx, `SELECT `+integrationColumns+` FROM users_integrations
		WHERE strava_token IS NOT NULL ORDER BY user_id`)
}

// ListStravaExpiringBefore returns linked integrations whose access token
// expires before t.
func (r *IntegrationRepository) ListStravaExpiringBefore(ctx context.Context, t time.Time) ([]model.UserIntegration, error) {
	return r.list(ctx, `SELECT `+integrationColumns+` FROM users_integrations
		WHERE strava_refresh_token IS NOT NULL AND strava_token_expires_at < $1 ORDER BY user_id`, t)
}

func (r *IntegrationRepository) ListGarminConnectLinked(ctx context.Context) ([]model.UserIntegration, error) {
	return r.list(ctx, `SELECT `+integrationColumns+` FROM users_integrations
		WHERE garminconnect_oauth2 IS NOT NULL ORDER BY user_id`)
}

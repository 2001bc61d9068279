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

type AccessTokenRepository struct {
	pool *pgxpool.Pool
}

func NewAccessTokenRepository(pool *pgxpool.Pool) *AccessTokenRepository {
	return &AccessTokenRepository{pool: pool}
}

func (r *AccessTokenRepository) Create(ctx context.Context, token *model.AccessToken) error {
	const stmt = `INSERT INTO access_tokens (token_id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, stmt, token.TokenID, token.UserID, token.CreatedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("create access token: %w", err)
	}
	return nil
}

// Get returns the stored token for tokenID. A revoked or unknown token
// yields a not-found error.
func (r *AccessTokenRepository) Get(ctx context.Context, tokenID string) (*model.AccessToken, error) {
	const query = `SELECT id, token_id, user_id, created_at, expires_at
		FROM access_tokens WHERE token_id = $1`

	rows, err := r.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query access token: %w", err)
	}
	token, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.AccessToken])
	if err != nil {
		return nil, sqlerr.WithTable(err, "access_tokens")
	}
	return token, nil
}

func (r *AccessTokenRepository) Delete(ctx context.Context, userID int64, tokenID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_tokens WHERE user_id = $1 AND token_id = $2`, userID, tokenID)
	if err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(pgx.ErrNoRows, "access_tokens")
	}
	return nil
}

// DeleteExpired removes every token that expired before now and reports
// how many were removed.
func (r *AccessTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired access tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

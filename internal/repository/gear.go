package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gearColumns = `id, brand, model, nickname, gear_type, user_id, is_active,
	strava_gear_id, garminconnect_gear_id, created_at`

type GearRepository struct {
	pool *pgxpool.Pool
}

func NewGearRepository(pool *pgxpool.Pool) *GearRepository {
	return &GearRepository{pool: pool}
}

func (r *GearRepository) list(ctx context.Context, query string, args ...any) ([]model.Gear, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query gear: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Gear])
}

func (r *GearRepository) Count(ctx context.Context, userID int64) (int64, error) {
	return count(ctx, r.pool, `SELECT COUNT(*) FROM gear WHERE user_id = $1`, userID)
}

func (r *GearRepository) ListAll(ctx context.Context, userID int64) ([]model.Gear, error) {
	return r.list(ctx, `SELECT `+gearColumns+` FROM gear WHERE user_id = $1 ORDER BY nickname`, userID)
}

func (r *GearRepository) List(ctx context.Context, userID int64, page model.Page) ([]model.Gear, error) {
	return r.list(ctx, `SELECT `+gearColumns+` FROM gear WHERE user_id = $1
		ORDER BY nickname LIMIT $2 OFFSET $3`, userID, page.NumRecords, page.Offset())
}

// ListByNickname matches nicknames containing the term, ignoring case.
func (r *GearRepository) ListByNickname(ctx context.Context, userID int64, nickname string) ([]model.Gear, error) {
	return r.list(ctx, `SELECT `+gearColumns+` FROM gear WHERE user_id = $1
		AND nickname ILIKE '%' || $2 || '%' ORDER BY nickname`, userID, nickname)
}

func (r *GearRepository) ListByType(ctx context.Context, userID int64, gearType model.GearType) ([]model.Gear, error) {
	return r.list(ctx, `SELECT `+gearColumns+` FROM gear WHERE user_id = $1 AND gear_type = $2
		ORDER BY nickname`, userID, gearType)
}

// GetByID loads a gear regardless of owner; callers enforce ownership.
func (r *GearRepository) GetByID(ctx context.Context, id int64) (*model.Gear, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+gearColumns+` FROM gear WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query gear: %w", err)
	}
	gear, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Gear])
	if err != nil {
		return nil, sqlerr.WithTable(err, "gear")
	}
	return gear, nil
}

const insertGear = `INSERT INTO gear (brand, model, nickname, gear_type, user_id, is_active,
	strava_gear_id, garminconnect_gear_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + gearColumns

func insertGearArgs(g *model.Gear) []any {
	return []any{g.Brand, g.Model, g.Nickname, g.GearType, g.UserID, g.IsActive,
		g.StravaGearID, g.GarminConnectGearID}
}

func (r *GearRepository) Create(ctx context.Context, gear *model.Gear) (*model.Gear, error) {
	rows, err := r.pool.Query(ctx, insertGear, insertGearArgs(gear)...)
	if err != nil {
		return nil, fmt.Errorf("insert gear: %w", err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Gear])
	if err != nil {
		return nil, fmt.Errorf("insert gear: %w", err)
	}
	return created, nil
}

// CreateMany inserts all gear in one transaction.
func (r *GearRepository) CreateMany(ctx context.Context, gears []model.Gear) ([]model.Gear, error) {
	if len(gears) == 0 {
		return nil, nil
	}

	created := make([]model.Gear, 0, len(gears))
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range gears {
			rows, err := tx.Query(ctx, insertGear, insertGearArgs(&gears[i])...)
			if err != nil {
				return err
			}
			g, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Gear])
			if err != nil {
				return err
			}
			created = append(created, g)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert gear batch: %w", err)
	}
	return created, nil
}

func (r *GearRepository) Update(ctx context.Context, gear *model.Gear) (*model.Gear, error) {
	const stmt = `UPDATE gear SET brand = $2, model = $3, nickname = $4, gear_type = $5,
		is_active = $6, strava_gear_id = $7, garminconnect_gear_id = $8
		WHERE id = $1 RETURNING ` + gearColumns

	rows, err := r.pool.Query(ctx, stmt, gear.ID, gear.Brand, gear.Model, gear.Nickname, gear.GearType,
		gear.IsActive, gear.StravaGearID, gear.GarminConnectGearID)
	if err != nil {
		return nil, fmt.Errorf("update gear: %w", err)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Gear])
	if err != nil {
		return nil, sqlerr.WithTable(err, "gear")
	}
	return updated, nil
}

// Delete removes the gear; the activities foreign key clears gear_id.
func (r *GearRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gear WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gear: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(pgx.ErrNoRows, "gear")
	}
	return nil
}

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

const healthDataColumns = `id, user_id, created_at, weight, bmi, body_fat, body_water, bone_mass,
	muscle_mass, garminconnect_body_composition_id`

type HealthDataRepository struct {
	pool *pgxpool.Pool
}

func NewHealthDataRepository(pool *pgxpool.Pool) *HealthDataRepository {
	return &HealthDataRepository{pool: pool}
}

func (r *HealthDataRepository) list(ctx context.Context, query string, args ...any) ([]model.HealthData, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query health data: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.HealthData])
}

func (r *HealthDataRepository) one(ctx context.Context, query string, args ...any) (*model.HealthData, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query health data: %w", err)
	}
	data, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.HealthData])
	if err != nil {
		return nil, sqlerr.WithTable(err, "health_data")
	}
	return data, nil
}

func (r *HealthDataRepository) Count(ctx context.Context, userID int64) (int64, error) {
	return count(ctx, r.pool, `SELECT COUNT(*) FROM health_data WHERE user_id = $1`, userID)
}

func (r *HealthDataRepository) ListAll(ctx context.Context, userID int64) ([]model.HealthData, error) {
	return r.list(ctx, `SELECT `+healthDataColumns+` FROM health_data WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

func (r *HealthDataRepository) List(ctx context.Context, userID int64, page model.Page) ([]model.HealthData, error) {
	return r.list(ctx, `SELECT `+healthDataColumns+` FROM health_data WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, page.NumRecords, page.Offset())
}

// GetByDate returns the row for the user's day; day is truncated to a date.
func (r *HealthDataRepository) GetByDate(ctx context.Context, userID int64, day time.Time) (*model.HealthData, error) {
	return r.one(ctx, `SELECT `+healthDataColumns+` FROM health_data
		WHERE user_id = $1 AND created_at = $2::date`, userID, day)
}

func (r *HealthDataRepository) GetByID(ctx context.Context, userID, id int64) (*model.HealthData, error) {
	return r.one(ctx, `SELECT `+healthDataColumns+` FROM health_data
		WHERE user_id = $1 AND id = $2`, userID, id)
}

func (r *HealthDataRepository) Create(ctx context.Context, data *model.HealthData) (*model.HealthData, error) {
	const stmt = `INSERT INTO health_data (user_id, created_at, weight, bmi, body_fat, body_water,
		bone_mass, muscle_mass, garminconnect_body_composition_id)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + healthDataColumns

	return r.one(ctx, stmt, data.UserID, data.CreatedAt, data.Weight, data.BMI, data.BodyFat,
		data.BodyWater, data.BoneMass, data.MuscleMass, data.GarminConnectBodyCompositionID)
}

// UpdateWeight sets weight and BMI on the user's row.
func (r *HealthDataRepository) UpdateWeight(ctx context.Context, userID, id int64, weight, bmi *float64) (*model.HealthData, error) {
	return r.one(ctx, `UPDATE health_data SET weight = $3, bmi = $4 WHERE user_id = $1 AND id = $2
		RETURNING `+healthDataColumns, userID, id, weight, bmi)
}

// FillWeight sets weight and BMI on a day that has none and fills the
// body composition fields that data carries, keeping stored values
// where data has nil.
func (r *HealthDataRepository) FillWeight(ctx context.Context, userID, id int64, data *model.HealthData) (*model.HealthData, error) {
	return r.one(ctx, `UPDATE health_data SET weight = $3, bmi = $4,
		body_fat = COALESCE($5, body_fat),
		body_water = COALESCE($6, body_water),
		bone_mass = COALESCE($7, bone_mass),
		muscle_mass = COALESCE($8, muscle_mass),
		garminconnect_body_composition_id = COALESCE($9, garminconnect_body_composition_id)
		WHERE user_id = $1 AND id = $2
		RETURNING `+healthDataColumns,
		userID, id, data.Weight, data.BMI, data.BodyFat, data.BodyWater, data.BoneMass, data.MuscleMass,
		data.GarminConnectBodyCompositionID)
}

func (r *HealthDataRepository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM health_data WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete health data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.WithTable(pgx.ErrNoRows, "health_data")
	}
	return nil
}

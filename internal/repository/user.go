package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gearguardian/internal/model"
	"github.com/deppfellow/gearguardian/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, username, email, password_hash, city, birthdate, preferred_language,
	gender, access_type, height, photo_path, is_active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, sqlerr.WithTable(err, "users")
	}
	return user, nil
}

// Create inserts the user and an empty integrations row in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const stmt = `INSERT INTO users (name, username, email, password_hash, city, birthdate,
		preferred_language, gender, access_type, height, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + userColumns

	var created *model.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt,
			user.Name,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.City,
			user.Birthdate,
			user.PreferredLanguage,
			user.Gender,
			user.AccessType,
			user.Height,
			user.IsActive,
		)
		if err != nil {
			return err
		}
		created, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO users_integrations (user_id) VALUES ($1)`, created.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

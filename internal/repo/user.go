package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndanilko/taskdeck/internal/model"
)

const userColumns = "id, username, password_hash, is_admin, created_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns+`
	`, username, passwordHash).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	return u, r.mapError(err)
}

func (r *UserRepo) Get(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return u, ErrorNotFound
	}
	return u, err
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return u, ErrorNotFound
	}
	return u, err
}

// Delete removes the user; tasks and sessions go with it via ON DELETE
// CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *UserRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return ErrorConflict
		}
	}
	return err
}

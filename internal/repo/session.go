package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndanilko/taskdeck/internal/model"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, userID int64, ttl time.Duration) (model.Session, error) {
	var s model.Session
	err := r.pool.QueryRow(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING token, user_id, expires_at, created_at
	`, uuid.NewString(), userID, time.Now().Add(ttl)).Scan(
		&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt,
	)
	return s, err
}

// Get resolves a live session. An expired row is indistinguishable from
// a missing one; the sweeper removes it eventually either way.
func (r *SessionRepo) Get(ctx context.Context, token string) (model.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return model.Session{}, ErrorNotFound
	}

	var s model.Session
	err := r.pool.QueryRow(ctx, `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()
	`, token).Scan(
		&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return s, ErrorNotFound
	}
	return s, err
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrorNotFound
	}

	cmd, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

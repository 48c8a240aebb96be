package repo

import (
	"context"
	"time"

	"github.com/ndanilko/taskdeck/internal/model"
)

// TaskRepository is everything the handlers need from task storage.
// Owner-scoped methods take the owner's id so that "not yours" and
// "does not exist" collapse into the same ErrorNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, ownerID, id int64) (model.Task, error)
	List(ctx context.Context, ownerID int64, f model.TaskFilter, limit, offset int) ([]model.Task, int, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error

	// Admin surface: every owner, completed is the only mutable field.
	ListAll(ctx context.Context, f model.AdminFilter, limit, offset int) ([]model.TaskWithOwner, int, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
}

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	Delete(ctx context.Context, id int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (model.Session, error)
	Get(ctx context.Context, token string) (model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

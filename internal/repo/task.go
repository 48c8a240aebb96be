package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ndanilko/taskdeck/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

const taskColumns = "id, user_id, title, description, due_date, priority, completed, created_at, updated_at"

// priorityRank turns the text enum into a sortable weight inside SQL.
const priorityRank = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END"

// orderings are fixed strings keyed by the normalized sort value; user
// input never reaches the ORDER BY clause directly.
var orderings = map[string]string{
	model.SortDefault:  priorityRank + " DESC, due_date ASC NULLS LAST, created_at DESC",
	model.SortPriority: priorityRank + " DESC, due_date ASC NULLS LAST",
	model.SortDueDate:  "due_date ASC NULLS LAST, " + priorityRank + " DESC",
	model.SortCreated:  "created_at DESC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes the LIKE metacharacters so a search term matches as
// a literal substring. The queries pair it with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, due_date, priority, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns+`
	`, t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.Completed).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *TaskRepo) Get(ctx context.Context, ownerID, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, ownerID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) List(ctx context.Context, ownerID int64, f model.TaskFilter, limit, offset int) ([]model.Task, int, error) {
	orderBy, ok := orderings[f.Sort]
	if !ok {
		orderBy = orderings[model.SortDefault]
	}

	query := `
		SELECT ` + taskColumns + `, count(*) OVER() AS total
		FROM tasks
		WHERE user_id = $1
		  AND ($2::bool IS NULL OR completed = $2)
		  AND ($3::text = '' OR title ILIKE '%' || $3 || '%' ESCAPE '\' OR description ILIKE '%' || $3 || '%' ESCAPE '\')
		ORDER BY ` + orderBy + `
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, ownerID, f.CompletedFilter(), escapeLike(f.Search), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var total int
	tasks := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

// Update rewrites every mutable field; id, owner and created_at never
// change. Last write wins, there is no version check.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, priority = $6, completed = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns+`
	`, t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.Completed).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) Delete(ctx context.Context, ownerID, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) ListAll(ctx context.Context, f model.AdminFilter, limit, offset int) ([]model.TaskWithOwner, int, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.due_date, t.priority, t.completed,
		       t.created_at, t.updated_at, u.username, count(*) OVER() AS total
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE ($1::text = '' OR t.priority = $1)
		  AND ($2::bool IS NULL OR t.completed = $2)
		  AND ($3::date IS NULL OR t.created_at::date = $3)
		  AND ($4::date IS NULL OR t.due_date = $4)
		  AND ($5::text = '' OR t.title ILIKE '%' || $5 || '%' ESCAPE '\' OR t.description ILIKE '%' || $5 || '%' ESCAPE '\' OR u.username ILIKE '%' || $5 || '%' ESCAPE '\')
		ORDER BY CASE t.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
		         t.due_date ASC NULLS LAST, t.created_at DESC
		LIMIT $6 OFFSET $7
	`

	rows, err := r.pool.Query(ctx, query, string(f.Priority), f.Completed, f.CreatedOn, f.DueOn, escapeLike(f.Search), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var total int
	tasks := make([]model.TaskWithOwner, 0, limit)
	for rows.Next() {
		var t model.TaskWithOwner
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt, &t.OwnerName, &total); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *TaskRepo) SetCompleted(ctx context.Context, id int64, completed bool) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks SET completed = $2, updated_at = now() WHERE id = $1
	`, id, completed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/repo"
)

// PageSize is the fixed number of tasks per list page.
const PageSize = 10

const titleMaxLen = 200

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, t model.Task) (model.Task, error) {
	t = normalize(t)
	if errs := validate(t); errs != nil {
		return t, errs
	}

	t.UserID = ownerID
	return s.repo.Create(ctx, t)
}

// Validate reports the field problems Create and Update would reject,
// without touching storage.
func (s *TaskService) Validate(t model.Task) FieldErrors {
	return validate(normalize(t))
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (model.Task, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *TaskService) List(ctx context.Context, ownerID int64, f model.TaskFilter, page int) (model.TaskPage, error) {
	f = f.Normalize()
	if page < 1 {
		page = 1
	}

	tasks, total, err := s.repo.List(ctx, ownerID, f, PageSize, (page-1)*PageSize)
	if err != nil {
		return model.TaskPage{}, err
	}

	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	return model.TaskPage{Tasks: tasks, Total: total, Page: page, Pages: pages}, nil
}

// Update replaces the mutable fields of the owner's task. The id and
// owner come from the request path and session, never from the payload.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, t model.Task) (model.Task, error) {
	t = normalize(t)
	if errs := validate(t); errs != nil {
		return t, errs
	}

	t.ID = id
	t.UserID = ownerID
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *TaskService) ListAll(ctx context.Context, f model.AdminFilter, page int) ([]model.TaskWithOwner, int, error) {
	if page < 1 {
		page = 1
	}
	if f.Priority != "" && !f.Priority.Valid() {
		f.Priority = ""
	}
	return s.repo.ListAll(ctx, f, PageSize, (page-1)*PageSize)
}

func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) error {
	return s.repo.SetCompleted(ctx, id, completed)
}

func normalize(t model.Task) model.Task {
	t.Title = strings.TrimSpace(t.Title)
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	return t
}

func validate(t model.Task) FieldErrors {
	errs := FieldErrors{}
	if t.Title == "" {
		errs["title"] = "title is required"
	} else if utf8.RuneCountInString(t.Title) > titleMaxLen {
		errs["title"] = "title must be at most 200 characters"
	}
	if !t.Priority.Valid() {
		errs["priority"] = "priority must be low, medium or high"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

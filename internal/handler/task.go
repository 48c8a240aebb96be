package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/repo"
	"github.com/ndanilko/taskdeck/internal/service"
	"github.com/ndanilko/taskdeck/pkg/render"
)

type TaskHandler struct {
	service *service.TaskService
	render  *render.Renderer
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, rnd *render.Renderer, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		render:  rnd,
		logger:  logger,
	}
}

type taskListData struct {
	User     model.User
	Page     model.TaskPage
	Filter   model.TaskFilter
	PrevPage int
	NextPage int
}

type taskDetailData struct {
	User model.User
	Task model.Task
}

type taskFormData struct {
	User      model.User
	FormTitle string
	Action    string
	Task      model.Task
	Errors    service.FieldErrors
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	filter := model.TaskFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}.Normalize()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	result, err := h.service.List(r.Context(), user.ID, filter, page)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	data := taskListData{User: user, Page: result, Filter: filter}
	if result.Page > 1 {
		data.PrevPage = result.Page - 1
	}
	if result.Page < result.Pages {
		data.NextPage = result.Page + 1
	}
	h.render.HTML(w, http.StatusOK, "task_list.html", data)
}

func (h *TaskHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	task, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "task_detail.html", taskDetailData{User: user, Task: task})
}

func (h *TaskHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	h.render.HTML(w, http.StatusOK, "task_form.html", taskFormData{
		User:      user,
		FormTitle: "Create New Task",
		Action:    "/tasks/new",
		Task:      model.Task{Priority: model.PriorityMedium},
	})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	task, ferrs := parseTaskForm(r)
	if ferrs == nil {
		_, err := h.service.Create(r.Context(), user.ID, task)
		if err == nil {
			http.Redirect(w, r, "/tasks", http.StatusSeeOther)
			return
		}
		if !errors.As(err, &ferrs) {
			h.handleErrors(w, r, err)
			return
		}
	} else {
		mergeFieldErrors(ferrs, h.service.Validate(task))
	}

	h.render.HTML(w, http.StatusUnprocessableEntity, "task_form.html", taskFormData{
		User:      user,
		FormTitle: "Create New Task",
		Action:    "/tasks/new",
		Task:      task,
		Errors:    ferrs,
	})
}

func (h *TaskHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	task, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.render.HTML(w, http.StatusOK, "task_form.html", taskFormData{
		User:      user,
		FormTitle: "Update Task",
		Action:    fmt.Sprintf("/tasks/%d/edit", id),
		Task:      task,
	})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	task, ferrs := parseTaskForm(r)
	if ferrs == nil {
		updated, err := h.service.Update(r.Context(), user.ID, id, task)
		if err == nil {
			http.Redirect(w, r, fmt.Sprintf("/tasks/%d", updated.ID), http.StatusSeeOther)
			return
		}
		if !errors.As(err, &ferrs) {
			h.handleErrors(w, r, err)
			return
		}
	} else {
		mergeFieldErrors(ferrs, h.service.Validate(task))
	}

	h.render.HTML(w, http.StatusUnprocessableEntity, "task_form.html", taskFormData{
		User:      user,
		FormTitle: "Update Task",
		Action:    fmt.Sprintf("/tasks/%d/edit", id),
		Task:      task,
		Errors:    ferrs,
	})
}

func (h *TaskHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	task, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "task_confirm_delete.html", taskDetailData{User: user, Task: task})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		h.render.Error(w, http.StatusNotFound, "task not found")
	default:
		h.logger.Error("internal error", zap.Error(err))
		h.render.Error(w, http.StatusInternalServerError, "something went wrong")
	}
}

// mergeFieldErrors folds the service's findings into the parse errors
// so a bad date and a bad title surface in the same round trip.
func mergeFieldErrors(dst, src service.FieldErrors) {
	for field, msg := range src {
		if _, ok := dst[field]; !ok {
			dst[field] = msg
		}
	}
}

// parseTaskForm reads the submitted fields. Only a malformed due date
// fails here; everything else is the service's call.
func parseTaskForm(r *http.Request) (model.Task, service.FieldErrors) {
	t := model.Task{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Priority:    model.Priority(r.FormValue("priority")),
		Completed:   r.FormValue("completed") == "true",
	}

	if raw := strings.TrimSpace(r.FormValue("due_date")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return t, service.FieldErrors{"due_date": "due date must be a valid date (YYYY-MM-DD)"}
		}
		t.DueDate = &d
	}
	return t, nil
}

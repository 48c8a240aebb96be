package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/repo"
	"github.com/ndanilko/taskdeck/internal/service"
	"github.com/ndanilko/taskdeck/pkg/render"
)

// AdminHandler serves the cross-user grid. Only the completed flag is
// mutable from here.
type AdminHandler struct {
	service *service.TaskService
	render  *render.Renderer
	logger  *zap.Logger
}

func NewAdminHandler(srv *service.TaskService, rnd *render.Renderer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: srv,
		render:  rnd,
		logger:  logger,
	}
}

type adminListData struct {
	User      model.User
	Tasks     []model.TaskWithOwner
	Priority  string
	Completed string
	Created   string
	Due       string
	Search    string
	Total     int
	Page      int
	Pages     int
	PrevPage  int
	NextPage  int
}

// parseDay reads a YYYY-MM-DD filter value. Anything else means the
// filter is off; the cleaned echo string goes back into the form.
func parseDay(raw string) (*time.Time, string) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, ""
	}
	return &d, raw
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	q := r.URL.Query()

	filter := model.AdminFilter{
		Priority: model.Priority(q.Get("priority")),
		Search:   q.Get("search"),
	}
	completed := q.Get("completed")
	if v, err := strconv.ParseBool(completed); err == nil {
		filter.Completed = &v
	} else {
		completed = ""
	}

	var created, due string
	filter.CreatedOn, created = parseDay(q.Get("created"))
	filter.DueOn, due = parseDay(q.Get("due"))

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	tasks, total, err := h.service.ListAll(r.Context(), filter, page)
	if err != nil {
		h.logger.Error("admin list failed", zap.Error(err))
		h.render.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	pages := (total + service.PageSize - 1) / service.PageSize
	if pages < 1 {
		pages = 1
	}

	data := adminListData{
		User:      user,
		Tasks:     tasks,
		Priority:  string(filter.Priority),
		Completed: completed,
		Created:   created,
		Due:       due,
		Search:    filter.Search,
		Total:     total,
		Page:      page,
		Pages:     pages,
	}
	if page > 1 {
		data.PrevPage = page - 1
	}
	if page < pages {
		data.NextPage = page + 1
	}
	h.render.HTML(w, http.StatusOK, "admin_tasks.html", data)
}

func (h *AdminHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	completed := r.FormValue("completed") == "true"

	if err := h.service.SetCompleted(r.Context(), id, completed); err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			h.render.Error(w, http.StatusNotFound, "task not found")
			return
		}
		h.logger.Error("admin update failed", zap.Error(err))
		h.render.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	http.Redirect(w, r, "/admin/tasks", http.StatusSeeOther)
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/repo"
	"github.com/ndanilko/taskdeck/internal/service"
)

var adminUser = model.User{ID: 2, Username: "root", IsAdmin: true}

func setupAdminHandler(t *testing.T) (*AdminHandler, *MockTaskRepository) {
	t.Helper()
	mockRepo := new(MockTaskRepository)
	taskService := service.NewTaskService(mockRepo)
	return NewAdminHandler(taskService, newTestRenderer(t), zap.NewNop()), mockRepo
}

func TestAdminHandler_List(t *testing.T) {
	t.Run("shows tasks across owners", func(t *testing.T) {
		handler, mockRepo := setupAdminHandler(t)
		mockRepo.On("ListAll", mock.Anything, model.AdminFilter{}, service.PageSize, 0).
			Return([]model.TaskWithOwner{
				{Task: model.Task{ID: 1, Title: "Buy groceries", Priority: model.PriorityHigh}, OwnerName: "alice"},
				{Task: model.Task{ID: 2, Title: "Water plants", Priority: model.PriorityLow}, OwnerName: "bob"},
			}, 2, nil)

		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/tasks", nil), adminUser)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice")
		assert.Contains(t, w.Body.String(), "bob")
		mockRepo.AssertExpectations(t)
	})

	t.Run("filters are parsed and forwarded", func(t *testing.T) {
		handler, mockRepo := setupAdminHandler(t)
		completed := true
		mockRepo.On("ListAll", mock.Anything, mock.MatchedBy(func(f model.AdminFilter) bool {
			return f.Priority == model.PriorityHigh && f.Completed != nil && *f.Completed == completed && f.Search == "alice"
		}), service.PageSize, 0).Return([]model.TaskWithOwner{}, 0, nil)

		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/tasks?priority=high&completed=true&search=alice", nil), adminUser)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("date filters are parsed and forwarded", func(t *testing.T) {
		handler, mockRepo := setupAdminHandler(t)
		created := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		mockRepo.On("ListAll", mock.Anything, mock.MatchedBy(func(f model.AdminFilter) bool {
			return f.CreatedOn != nil && f.CreatedOn.Equal(created) &&
				f.DueOn != nil && f.DueOn.Equal(due)
		}), service.PageSize, 0).Return([]model.TaskWithOwner{}, 0, nil)

		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/tasks?created=2024-01-05&due=2024-02-01", nil), adminUser)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed dates switch the filter off", func(t *testing.T) {
		handler, mockRepo := setupAdminHandler(t)
		mockRepo.On("ListAll", mock.Anything, mock.MatchedBy(func(f model.AdminFilter) bool {
			return f.CreatedOn == nil && f.DueOn == nil
		}), service.PageSize, 0).Return([]model.TaskWithOwner{}, 0, nil)

		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/tasks?created=yesterday&due=2024-13-40", nil), adminUser)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestAdminHandler_SetCompleted(t *testing.T) {
	t.Run("toggles the flag and redirects back", func(t *testing.T) {
		handler, mockRepo := setupAdminHandler(t)
		mockRepo.On("SetCompleted", mock.Anything, int64(7), true).Return(nil)

		form := url.Values{"completed": {"true"}}
		req := asUser(formRequest(http.MethodPost, "/admin/tasks/7/completed", form), adminUser)
		req = withURLParam(req, "id", "7")
		w := httptest.NewRecorder()
		handler.SetCompleted(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/tasks", w.Header().Get("Location"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing task is a 404", func(t *testing.T) {
		handler, mockRepo := setupAdminHandler(t)
		mockRepo.On("SetCompleted", mock.Anything, int64(7), false).Return(repo.ErrorNotFound)

		form := url.Values{"completed": {"false"}}
		req := asUser(formRequest(http.MethodPost, "/admin/tasks/7/completed", form), adminUser)
		req = withURLParam(req, "id", "7")
		w := httptest.NewRecorder()
		handler.SetCompleted(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

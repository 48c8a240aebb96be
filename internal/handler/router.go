package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndanilko/taskdeck/internal/service"
	"github.com/ndanilko/taskdeck/pkg/render"
)

// NewRouter wires every page route. Shared between main and the e2e
// tests so the two never drift.
func NewRouter(tasks *TaskHandler, auth *AuthHandler, admin *AdminHandler, authService *service.AuthService, rnd *render.Renderer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Authenticate(authService))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
	})

	r.Get("/register", auth.RegisterForm)
	r.Post("/register", auth.Register)
	r.Get("/login", auth.LoginForm)
	r.Post("/login", auth.Login)
	r.Get("/logout", auth.Logout)
	r.Post("/logout", auth.Logout)

	r.Route("/tasks", func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/", tasks.List)
		r.Get("/new", tasks.NewForm)
		r.Post("/new", tasks.Create)
		r.Get("/{id}", tasks.Detail)
		r.Get("/{id}/edit", tasks.EditForm)
		r.Post("/{id}/edit", tasks.Update)
		r.Get("/{id}/delete", tasks.DeleteConfirm)
		r.Post("/{id}/delete", tasks.Delete)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin(rnd))
		r.Get("/tasks", admin.List)
		r.Post("/tasks/{id}/completed", admin.SetCompleted)
	})

	return r
}

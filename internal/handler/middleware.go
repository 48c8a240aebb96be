package handler

import (
	"context"
	"net/http"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/service"
	"github.com/ndanilko/taskdeck/pkg/render"
)

// SessionCookie names the cookie carrying the opaque session token.
const SessionCookie = "taskdeck_session"

type ctxKey int

const userKey ctxKey = iota

func ContextWithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser returns the authenticated user attached by Authenticate,
// if any.
func CurrentUser(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}

// Authenticate resolves the session cookie to a user and attaches it to
// the request context. A missing, expired or garbage cookie just leaves
// the request anonymous.
func Authenticate(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				if user, err := auth.UserFromSession(r.Context(), cookie.Value); err == nil {
					r = r.WithContext(ContextWithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin hides the admin surface behind a 404 so non-admins
// cannot even confirm it exists.
func RequireAdmin(rnd *render.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok || !user.IsAdmin {
				rnd.Error(w, http.StatusNotFound, "page not found")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

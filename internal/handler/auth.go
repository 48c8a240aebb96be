package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/service"
	"github.com/ndanilko/taskdeck/pkg/render"
)

type AuthHandler struct {
	auth         *service.AuthService
	render       *render.Renderer
	logger       *zap.Logger
	cookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, rnd *render.Renderer, logger *zap.Logger, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		render:       rnd,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

type registerData struct {
	User     model.User
	Username string
	Errors   service.FieldErrors
}

type loginData struct {
	User     model.User
	Username string
	Error    string
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}
	h.render.HTML(w, http.StatusOK, "register.html", registerData{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, session, err := h.auth.Register(r.Context(), username, password)
	if err != nil {
		var ferrs service.FieldErrors
		if errors.As(err, &ferrs) {
			h.render.HTML(w, http.StatusUnprocessableEntity, "register.html", registerData{
				Username: username,
				Errors:   ferrs,
			})
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		h.render.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.setSessionCookie(w, session)
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}
	h.render.HTML(w, http.StatusOK, "login.html", loginData{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, session, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrCredentials) {
			h.render.HTML(w, http.StatusUnauthorized, "login.html", loginData{
				Username: username,
				Error:    "invalid username or password",
			})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.render.Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.setSessionCookie(w, session)
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// Logout kills the session server-side and expires the cookie. Always
// lands on the login page, logged in or not.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout failed", zap.Error(err))
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, s model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

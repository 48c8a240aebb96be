package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/repo"
)

// ErrCredentials covers both unknown username and wrong password, so
// login failures never reveal which half was wrong.
var ErrCredentials = errors.New("invalid credentials")

const (
	usernameMaxLen = 150
	passwordMinLen = 8
)

type AuthService struct {
	users    repo.UserRepository
	sessions repo.SessionRepository
	ttl      time.Duration
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionRepository, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// Register creates the account and immediately opens a session for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (model.User, model.Session, error) {
	username = strings.TrimSpace(username)

	errs := FieldErrors{}
	if username == "" {
		errs["username"] = "username is required"
	} else if utf8.RuneCountInString(username) > usernameMaxLen {
		errs["username"] = "username must be at most 150 characters"
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		errs["password"] = "password must be at least 8 characters"
	}
	if len(errs) > 0 {
		return model.User{}, model.Session{}, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, model.Session{}, err
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrorConflict) {
			return model.User{}, model.Session{}, FieldErrors{"username": "username is already taken"}
		}
		return model.User{}, model.Session{}, err
	}

	session, err := s.sessions.Create(ctx, user.ID, s.ttl)
	return user, session, err
}

func (s *AuthService) Login(ctx context.Context, username, password string) (model.User, model.Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.User{}, model.Session{}, ErrCredentials
		}
		return model.User{}, model.Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.User{}, model.Session{}, ErrCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID, s.ttl)
	return user, session, err
}

// Logout drops the server-side session. A token that is already gone is
// a silent success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Delete(ctx, token)
	if errors.Is(err, repo.ErrorNotFound) {
		return nil
	}
	return err
}

// UserFromSession resolves a session token to its user, if still live.
func (s *AuthService) UserFromSession(ctx context.Context, token string) (model.User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return model.User{}, err
	}
	return s.users.Get(ctx, session.UserID)
}

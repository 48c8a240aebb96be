package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndanilko/taskdeck/internal/model"
	"github.com/ndanilko/taskdeck/internal/repo"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string) (model.User, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Get(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, userID int64, ttl time.Duration) (model.Session, error) {
	args := m.Called(ctx, userID, ttl)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockSessionRepository) Get(ctx context.Context, token string) (model.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("successful registration opens a session", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		users.On("Create", mock.Anything, "alice", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")) == nil
		})).Return(model.User{ID: 1, Username: "alice"}, nil)
		sessions.On("Create", mock.Anything, int64(1), time.Hour).
			Return(model.Session{Token: "tok", UserID: 1}, nil)

		auth := NewAuthService(users, sessions, time.Hour)
		user, session, err := auth.Register(context.Background(), " alice ", "correct horse")

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "tok", session.Token)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("short password rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		auth := NewAuthService(users, sessions, time.Hour)
		_, _, err := auth.Register(context.Background(), "alice", "short")

		assert.ErrorIs(t, err, ErrValidation)
		var ferrs FieldErrors
		require.ErrorAs(t, err, &ferrs)
		assert.Contains(t, ferrs, "password")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty username rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		auth := NewAuthService(users, sessions, time.Hour)
		_, _, err := auth.Register(context.Background(), "   ", "long enough password")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("duplicate username becomes a field error", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		users.On("Create", mock.Anything, "alice", mock.Anything).
			Return(model.User{}, repo.ErrorConflict)

		auth := NewAuthService(users, sessions, time.Hour)
		_, _, err := auth.Register(context.Background(), "alice", "long enough password")

		assert.ErrorIs(t, err, ErrValidation)
		var ferrs FieldErrors
		require.ErrorAs(t, err, &ferrs)
		assert.Contains(t, ferrs, "username")
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	account := model.User{ID: 1, Username: "alice", PasswordHash: string(hash)}

	t.Run("successful login", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		users.On("GetByUsername", mock.Anything, "alice").Return(account, nil)
		sessions.On("Create", mock.Anything, int64(1), time.Hour).
			Return(model.Session{Token: "tok", UserID: 1}, nil)

		auth := NewAuthService(users, sessions, time.Hour)
		user, session, err := auth.Login(context.Background(), "alice", "correct horse")

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		users.On("GetByUsername", mock.Anything, "alice").Return(account, nil)

		auth := NewAuthService(users, sessions, time.Hour)
		_, _, err := auth.Login(context.Background(), "alice", "wrong")

		assert.ErrorIs(t, err, ErrCredentials)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown username yields the same error", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		users.On("GetByUsername", mock.Anything, "nobody").Return(model.User{}, repo.ErrorNotFound)

		auth := NewAuthService(users, sessions, time.Hour)
		_, _, err := auth.Login(context.Background(), "nobody", "whatever")

		assert.ErrorIs(t, err, ErrCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("deletes the session", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		sessions.On("Delete", mock.Anything, "tok").Return(nil)

		auth := NewAuthService(users, sessions, time.Hour)
		require.NoError(t, auth.Logout(context.Background(), "tok"))
		sessions.AssertExpectations(t)
	})

	t.Run("already-dead session is a no-op success", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		sessions.On("Delete", mock.Anything, "gone").Return(repo.ErrorNotFound)

		auth := NewAuthService(users, sessions, time.Hour)
		require.NoError(t, auth.Logout(context.Background(), "gone"))
	})
}

func TestAuthService_UserFromSession(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)

	sessions.On("Get", mock.Anything, "tok").Return(model.Session{Token: "tok", UserID: 7}, nil)
	users.On("Get", mock.Anything, int64(7)).Return(model.User{ID: 7, Username: "bob"}, nil)

	auth := NewAuthService(users, sessions, time.Hour)
	user, err := auth.UserFromSession(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

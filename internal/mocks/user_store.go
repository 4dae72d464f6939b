package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// MockUserStore implements store.UserStore in memory for testing.
//
// The default behaviour mirrors the PostgreSQL store: emails are unique
// case-insensitively, usernames are unique when set, and users are copied on
// the way in and out so callers never share memory with the store.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn               func(ctx context.Context, user *domain.User) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameFn        func(ctx context.Context, username string) (*domain.User, error)
	GetByInvitationTokenFn func(ctx context.Context, token string) (*domain.User, error)
	ListFn                 func(ctx context.Context) ([]*domain.User, error)
	UpdateFn               func(ctx context.Context, user *domain.User) error
	DeleteFn               func(ctx context.Context, id uuid.UUID) error

	// Errors returned by the default implementation when set
	CreateError error
	UpdateError error

	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

// Ensure MockUserStore implements store.UserStore interface
var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = copyUser(u)
	}
	return m
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUniqueLocked(user); err != nil {
		return err
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	if username == "" {
		return nil, store.ErrUserNotFound
	}
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

// GetByInvitationToken implements the UserStore interface
func (m *MockUserStore) GetByInvitationToken(ctx context.Context, token string) (*domain.User, error) {
	if m.GetByInvitationTokenFn != nil {
		return m.GetByInvitationTokenFn(ctx, token)
	}
	if token == "" {
		return nil, store.ErrUserNotFound
	}
	return m.find(func(u *domain.User) bool { return u.InvitationToken == token })
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if err := m.checkUniqueLocked(user); err != nil {
		return err
	}

	updated := copyUser(user)
	updated.CreatedAt = existing.CreatedAt
	m.users[user.ID] = updated
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// WithTx implements the UserStore interface. The mock has no transactions.
func (m *MockUserStore) WithTx(_ *sql.Tx) store.UserStore {
	return m
}

// Count returns the number of stored users.
func (m *MockUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *MockUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// checkUniqueLocked reports a clash of user's email or username with any
// other stored user. The caller must hold m.mu.
func (m *MockUserStore) checkUniqueLocked(user *domain.User) error {
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
		if user.Username != "" && u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	return nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.InvitationExpiry != nil {
		t := *u.InvitationExpiry
		c.InvitationExpiry = &t
	}
	return &c
}

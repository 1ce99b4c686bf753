package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	GetAvatarFn  func(ctx context.Context, id uuid.UUID) ([]byte, error)
	SetAvatarFn  func(ctx context.Context, id uuid.UUID, avatar []byte) error

	// Data for default implementation, keyed by normalized email
	Users   map[string]*domain.User
	Avatars map[uuid.UUID][]byte
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:   make(map[string]*domain.User),
		Avatars: make(map[uuid.UUID][]byte),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.Users[user.Email] = user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, user := range m.Users {
		if user.ID == id {
			// Return a copy, like a real row scan, so callers mutate
			// their own record rather than the stored one.
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	for email, existing := range m.Users {
		if existing.ID == user.ID {
			delete(m.Users, email)
			m.Users[user.Email] = user
			return nil
		}
	}
	return store.ErrUserNotFound
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	for email, user := range m.Users {
		if user.ID == id {
			delete(m.Users, email)
			delete(m.Avatars, id)
			return nil
		}
	}
	return store.ErrUserNotFound
}

// GetAvatar implements the UserStore interface
func (m *MockUserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, id)
	}

	if _, err := m.GetByID(ctx, id); err != nil {
		return nil, err
	}
	avatar, exists := m.Avatars[id]
	if !exists || avatar == nil {
		return nil, store.ErrAvatarNotFound
	}
	return avatar, nil
}

// SetAvatar implements the UserStore interface
func (m *MockUserStore) SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	if m.SetAvatarFn != nil {
		return m.SetAvatarFn(ctx, id, avatar)
	}

	if _, err := m.GetByID(ctx, id); err != nil {
		return err
	}
	if avatar == nil {
		delete(m.Avatars, id)
		return nil
	}
	m.Avatars[id] = avatar
	return nil
}

// WithTx implements the UserStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

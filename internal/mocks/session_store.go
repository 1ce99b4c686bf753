package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// MockSessionStore implements store.SessionStore for testing
type MockSessionStore struct {
	// Function fields for customizable behavior
	AddFn       func(ctx context.Context, userID uuid.UUID, token string) error
	ExistsFn    func(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RemoveFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllFn func(ctx context.Context, userID uuid.UUID) error

	// Data for default implementation
	Tokens map[uuid.UUID][]string
}

// NewMockSessionStore creates a new mock store with initialized defaults
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Tokens: make(map[uuid.UUID][]string),
	}
}

// Add implements the SessionStore interface
func (m *MockSessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, token)
	}

	m.Tokens[userID] = append(m.Tokens[userID], token)
	return nil
}

// Exists implements the SessionStore interface
func (m *MockSessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, token)
	}

	for _, t := range m.Tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

// Remove implements the SessionStore interface
func (m *MockSessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, token)
	}

	tokens := m.Tokens[userID]
	for i, t := range tokens {
		if t == token {
			m.Tokens[userID] = append(tokens[:i], tokens[i+1:]...)
			return nil
		}
	}
	return nil
}

// RemoveAll implements the SessionStore interface
func (m *MockSessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	if m.RemoveAllFn != nil {
		return m.RemoveAllFn(ctx, userID)
	}

	delete(m.Tokens, userID)
	return nil
}

// WithTx implements the SessionStore interface
func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}

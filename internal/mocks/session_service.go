package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/service/auth"
)

// MockSessionService implements service.SessionService for testing
type MockSessionService struct {
	// Function fields for customizable behavior
	IssueTokenFn      func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn   func(ctx context.Context, tokenString string) (*domain.User, error)
	RevokeTokenFn     func(ctx context.Context, userID uuid.UUID, tokenString string) error
	RevokeAllTokensFn func(ctx context.Context, userID uuid.UUID) error
}

// IssueToken implements the SessionService interface
func (m *MockSessionService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, userID)
	}
	return "test-token", nil
}

// ValidateToken implements the SessionService interface
func (m *MockSessionService) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// RevokeToken implements the SessionService interface
func (m *MockSessionService) RevokeToken(ctx context.Context, userID uuid.UUID, tokenString string) error {
	if m.RevokeTokenFn != nil {
		return m.RevokeTokenFn(ctx, userID, tokenString)
	}
	return nil
}

// RevokeAllTokens implements the SessionService interface
func (m *MockSessionService) RevokeAllTokens(ctx context.Context, userID uuid.UUID) error {
	if m.RevokeAllTokensFn != nil {
		return m.RevokeAllTokensFn(ctx, userID)
	}
	return nil
}

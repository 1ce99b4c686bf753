package mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing
type MockTokenService struct {
	// Function fields for customizable behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Data for default implementation: maps issued token strings back to
	// the user they were minted for
	Issued  map[string]uuid.UUID
	counter int
}

// NewMockTokenService creates a new mock with initialized defaults
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		Issued: make(map[string]uuid.UUID),
	}
}

// GenerateToken implements the TokenService interface
func (m *MockTokenService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}

	m.counter++
	token := fmt.Sprintf("token-%s-%d", userID, m.counter)
	m.Issued[token] = userID
	return token, nil
}

// ValidateToken implements the TokenService interface
func (m *MockTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}

	userID, exists := m.Issued[tokenString]
	if !exists {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
}

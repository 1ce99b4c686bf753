// Package service implements the application's business operations over
// the store interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/service/auth"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// SessionService manages the lifecycle of bearer tokens: issuance,
// validation, and revocation. A token is live only while it is both
// cryptographically valid and present in the user's session set; the
// presence check is what makes logout effective, since a signed token
// cannot be un-signed.
type SessionService interface {
	// IssueToken mints a new token for the user and records it in the
	// session set. Each call returns a distinct token.
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken resolves a presented token to its user. It verifies
	// the signature, loads the user, and requires the exact token string
	// to still be present in the user's session set. Every failure mode
	// (bad signature, deleted user, revoked token) reports
	// auth.ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)

	// RevokeToken removes exactly the matching token from the user's
	// session set. Revoking an absent token is a no-op.
	RevokeToken(ctx context.Context, userID uuid.UUID, tokenString string) error

	// RevokeAllTokens clears the user's entire session set.
	RevokeAllTokens(ctx context.Context, userID uuid.UUID) error
}

// SessionServiceImpl implements the SessionService interface.
type SessionServiceImpl struct {
	tokens   auth.TokenService
	sessions store.SessionStore
	users    store.UserStore
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	tokens auth.TokenService,
	sessions store.SessionStore,
	users store.UserStore,
	logger *slog.Logger,
) SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionServiceImpl{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		logger:   logger.With("component", "session_service"),
	}
}

// IssueToken mints and records a new token for the user.
func (s *SessionServiceImpl) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		s.logger.Error("failed to generate token",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.sessions.Add(ctx, userID, token); err != nil {
		s.logger.Error("failed to record session",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Debug("token issued", "user_id", userID)
	return token, nil
}

// ValidateToken resolves a presented token to its owning user.
func (s *SessionServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Tokens for deleted users stay signed forever; without the
			// user row they are dead regardless.
			s.logger.Debug("token references missing user", "user_id", claims.UserID)
			return nil, auth.ErrInvalidToken
		}
		s.logger.Error("failed to load user during token validation",
			"error", err,
			"user_id", claims.UserID)
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	live, err := s.sessions.Exists(ctx, user.ID, tokenString)
	if err != nil {
		s.logger.Error("failed to check session liveness",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !live {
		s.logger.Debug("token revoked", "user_id", user.ID)
		return nil, auth.ErrInvalidToken
	}

	return user, nil
}

// RevokeToken removes one token from the user's session set.
func (s *SessionServiceImpl) RevokeToken(ctx context.Context, userID uuid.UUID, tokenString string) error {
	if err := s.sessions.Remove(ctx, userID, tokenString); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("token revoked", "user_id", userID)
	return nil
}

// RevokeAllTokens clears the user's session set.
func (s *SessionServiceImpl) RevokeAllTokens(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.RemoveAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke all tokens: %w", err)
	}
	s.logger.Info("all tokens revoked", "user_id", userID)
	return nil
}

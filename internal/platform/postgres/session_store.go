package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/platform/logger"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface.
// Tokens live in their own table keyed by (user_id, token), so issuing
// and revoking sessions on the same account from different devices are
// independent row operations with no lost-update window.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, the default logger is used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Add implements store.SessionStore.Add
func (s *PostgresSessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO sessions (user_id, token, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, userID, token, time.Now().UTC())
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to add session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to add session: %w", err)
	}

	log.Debug("session added",
		slog.String("user_id", userID.String()))
	return nil
}

// Exists implements store.SessionStore.Exists
func (s *PostgresSessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sessions WHERE user_id = $1 AND token = $2
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return exists, nil
}

// Remove implements store.SessionStore.Remove
func (s *PostgresSessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Deleting an absent token is a no-op: revocation is idempotent.
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		log.Error("failed to remove session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to remove session: %w", err)
	}

	log.Debug("session removed",
		slog.String("user_id", userID.String()))
	return nil
}

// RemoveAll implements store.SessionStore.RemoveAll
func (s *PostgresSessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to remove all sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("failed to remove all sessions: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil {
		log.Debug("all sessions removed",
			slog.String("user_id", userID.String()),
			slog.Int64("count", n))
	}
	return nil
}

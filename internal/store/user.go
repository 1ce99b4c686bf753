package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The HashedPassword field must
	// already be populated; the store never sees plaintext.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The Avatar field is not loaded; use GetAvatar.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists changes to name, email, hashed password, and age.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// when updating to an email that is already taken.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user row by ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetAvatar returns the stored avatar bytes for the user.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrAvatarNotFound if the user has no avatar.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// SetAvatar replaces the user's avatar. A nil value clears it.
	// Returns ErrUserNotFound if the user does not exist.
	SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// WithTx returns a UserStore bound to the provided transaction, so
	// multiple operations can execute atomically.
	WithTx(tx *sql.Tx) UserStore
}

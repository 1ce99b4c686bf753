package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SessionStore persists the set of live bearer tokens per user. Each token
// is one row, so concurrent logins and logouts for the same user are plain
// row inserts and deletes rather than read-modify-write of a token list.
type SessionStore interface {
	// Add records a newly issued token for the user.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether the exact token is still live for the user.
	// A cryptographically valid token that has been revoked is not live.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// Remove deletes exactly the matching token. Removing a token that is
	// already absent is not an error.
	Remove(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAll deletes every token for the user.
	RemoveAll(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a SessionStore bound to the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}

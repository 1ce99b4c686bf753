// Package auth provides token signing and password hashing primitives.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines operations for minting and verifying signed bearer
// tokens. Signature validity alone never makes a token live: the session
// layer additionally requires the token to be present in the user's
// session set, which is what makes logout effective.
type TokenService interface {
	// GenerateToken creates a signed token embedding the user's identity.
	// Each call produces a distinct token even for the same user.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the token's signature and decodes the claims.
	// Returns ErrInvalidToken if the token is malformed, unsigned, or the
	// signature does not verify.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the decoded contents of a verified token.
type Claims struct {
	// UserID is the identity the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// Standard registered claims. Tokens carry no expiry: revocation by
	// removal from the session set is the only way a token dies.
	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	ID       string    `json:"jti,omitempty"`
}

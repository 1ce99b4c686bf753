package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, unsigned, carries a
	// bad signature, or has been revoked. The cases are deliberately not
	// distinguished for callers.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials is the single error for a failed login. The
	// same value covers an unknown email and a wrong password so that
	// responses do not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

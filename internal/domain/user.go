package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common user validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters long")
	ErrPasswordForbidden   = errors.New("password cannot contain the word \"password\"")
	ErrNegativeAge         = errors.New("age cannot be negative")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 6

// User represents a registered account. Password holds the plaintext only
// transiently during registration or a profile update; it is hashed before
// the record is persisted and never serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, transient
	HashedPassword string    `json:"-"` // Never expose the hash
	Age            int       `json:"age"`
	Avatar         []byte    `json:"-"` // Binary image, served separately
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User from registration input. Name and email are
// trimmed and the email lowercased before validation. The caller is
// responsible for hashing Password before storing the user.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  strings.TrimSpace(password),
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lowercases an email address. All lookups and
// uniqueness checks operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the user's fields. When a plaintext password is present
// it is validated against the password rules; otherwise a hashed password
// must already exist (the case for records loaded from the store).
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyUserID)
	}

	if u.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyName)
	}

	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}

	if !validEmail(u.Email) {
		return NewValidationError("email", "is not a valid address", ErrInvalidEmail)
	}

	if u.Age < 0 {
		return NewValidationError("age", "cannot be negative", ErrNegativeAge)
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", ErrEmptyPassword)
	}

	return nil
}

// ValidatePassword applies the plaintext password rules: minimum length
// and the case-insensitive "password" substring exclusion.
func ValidatePassword(password string) error {
	if password == "" {
		return NewValidationError("password", "cannot be empty", ErrEmptyPassword)
	}
	if len(password) < MinPasswordLength {
		return NewValidationError("password", "must be at least 6 characters", ErrPasswordTooShort)
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return NewValidationError("password", "cannot contain the word \"password\"", ErrPasswordForbidden)
	}
	return nil
}

// validEmail reports whether the address parses as a single RFC 5322
// address without a display name.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

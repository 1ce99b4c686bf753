package mocks

import (
	"errors"

	"github.com/taskfolio/taskfolio-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)
}

// Hash implements the PasswordHasher interface. The default prefixes the
// password so tests can recognize the "hash" without paying bcrypt cost.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

// Compare implements the PasswordVerifier interface. The default accepts
// hashes produced by MockPasswordHasher.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errors.New("password mismatch")
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

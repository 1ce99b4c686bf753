// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the application,
// facilitating consistent and DRY testing across the codebase. Instead of defining
// inline mocks in individual test files, these standardized mock implementations
// can be reused.
//
// Each mock exposes function fields (CreateFn, ValidateTokenFn, ...) that
// override behavior per-test; when a field is nil the mock falls back to a
// simple in-memory default.
//
//	import "github.com/taskfolio/taskfolio-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    tokens := mocks.NewMockTokenService()
//	    tokens.GenerateTokenFn = func(ctx context.Context, userID uuid.UUID) (string, error) {
//	        return "mocked-token", nil
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks

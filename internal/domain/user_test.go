package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Ada", "Ada@Example.COM", "secret99", 30)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Name != "Ada" {
		t.Errorf("Expected name Ada, got %s", user.Name)
	}

	if user.Email != "ada@example.com" {
		t.Errorf("Expected normalized email ada@example.com, got %s", user.Email)
	}

	if user.Age != 30 {
		t.Errorf("Expected age 30, got %d", user.Age)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}
}

func TestNewUserValidation(t *testing.T) {
	cases := []struct {
		name     string
		userName string
		email    string
		password string
		age      int
		wantErr  error
	}{
		{"empty name", "", "ada@example.com", "secret99", 30, ErrEmptyName},
		{"whitespace name", "   ", "ada@example.com", "secret99", 30, ErrEmptyName},
		{"empty email", "Ada", "", "secret99", 30, ErrEmptyEmail},
		{"malformed email", "Ada", "not-an-email", "secret99", 30, ErrInvalidEmail},
		{"empty password", "Ada", "ada@example.com", "", 30, ErrEmptyPassword},
		{"short password", "Ada", "ada@example.com", "abc12", 30, ErrPasswordTooShort},
		{"forbidden password", "Ada", "ada@example.com", "myPassWord1", 30, ErrPasswordForbidden},
		{"negative age", "Ada", "ada@example.com", "secret99", -1, ErrNegativeAge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.userName, tc.email, tc.password, tc.age)
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to match ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret99"); err != nil {
		t.Errorf("Expected no error for valid password, got %v", err)
	}

	// The exclusion is case-insensitive and matches substrings.
	for _, pw := range []string{"password", "PASSWORD1", "xxPaSsWoRdxx"} {
		if err := ValidatePassword(pw); !errors.Is(err, ErrPasswordForbidden) {
			t.Errorf("Expected ErrPasswordForbidden for %q, got %v", pw, err)
		}
	}

	if err := ValidatePassword("abcde"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("Expected ErrPasswordTooShort, got %v", err)
	}

	// Exactly the minimum length is accepted.
	if err := ValidatePassword("abcdef"); err != nil {
		t.Errorf("Expected no error at minimum length, got %v", err)
	}
}

func TestUserValidateLoadedRecord(t *testing.T) {
	// A record loaded from the store has a hash but no plaintext.
	user := User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "$2a$08$abcdefghijklmnopqrstuv",
		Age:            30,
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Neither plaintext nor hash present is invalid.
	user.HashedPassword = ""
	if err := user.Validate(); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected ErrEmptyPassword, got %v", err)
	}

	user.HashedPassword = "$2a$08$abcdefghijklmnopqrstuv"
	user.ID = uuid.Nil
	if err := user.Validate(); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Expected ErrEmptyUserID, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  Ada@Example.COM  ": "ada@example.com",
		"ada@example.com":     "ada@example.com",
		"ADA@EXAMPLE.COM":     "ada@example.com",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

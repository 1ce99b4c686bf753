package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/notify"
	"github.com/taskfolio/taskfolio-api/internal/service/auth"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// Dispatcher enqueues best-effort notifications for background delivery.
type Dispatcher interface {
	Dispatch(msg notify.Message)
}

// ProfileUpdate carries the whitelisted mutable profile fields. A nil
// field is left untouched. The password is re-hashed only when the
// Password field is present.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// UserService provides account operations: registration, credential
// verification, profile updates, avatar storage, and account deletion
// with its cascade.
type UserService interface {
	// Register validates the input, hashes the password, and persists the
	// new user. Returns store.ErrEmailExists when the email is taken.
	// A welcome notification is dispatched best-effort on success.
	Register(ctx context.Context, name, email, password string, age int) (*domain.User, error)

	// VerifyCredentials looks up the user by email and compares the
	// password against the stored hash. An unknown email and a wrong
	// password both return auth.ErrInvalidCredentials, indistinguishably.
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile applies the whitelisted fields, re-validating changed
	// values and re-hashing the password only if it changed.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)

	// DeleteUser removes the user and, in the same transaction, every
	// task they own and every live session. A cancellation notification
	// is dispatched best-effort after the transaction commits.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// SetAvatar stores the processed avatar bytes for the user.
	SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error

	// DeleteAvatar clears the user's avatar.
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error

	// GetAvatar returns the stored avatar bytes. Returns
	// store.ErrAvatarNotFound when the user has no avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	users      store.UserStore
	sessions   store.SessionStore
	tasks      store.TaskStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	dispatcher Dispatcher
	db         *sql.DB
	logger     *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	sessions store.SessionStore,
	tasks store.TaskStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	dispatcher Dispatcher,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:      users,
		sessions:   sessions,
		tasks:      tasks,
		hasher:     hasher,
		verifier:   verifier,
		dispatcher: dispatcher,
		db:         db,
		logger:     logger.With("component", "user_service"),
	}
}

// Register creates a new account.
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string, age int) (*domain.User, error) {
	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted registration with existing email")
			return nil, err
		}
		s.logger.Error("failed to create user",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.dispatcher.Dispatch(notify.Message{
		Kind:  notify.KindWelcome,
		Email: user.Email,
		Name:  user.Name,
	})

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// VerifyCredentials authenticates an email/password pair.
func (s *UserServiceImpl) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user by email", "error", err)
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a whitelisted profile update.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user for update: %w", err)
	}

	if update.Name != nil {
		// Trimmed like registration, so a whitespace-only name fails
		// validation rather than being stored.
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		user.Email = domain.NormalizeEmail(*update.Email)
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Password != nil {
		// Validate before hashing so the error carries the field detail.
		if err := domain.ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*update.Password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err, "user_id", userID)
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		user.HashedPassword = hashed
	}
	user.Password = ""

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, err
		}
		s.logger.Error("failed to update user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}

// DeleteUser removes the account, its tasks, and its sessions atomically.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve user for deletion: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		deleted, err := s.tasks.WithTx(tx).DeleteByOwner(ctx, userID)
		if err != nil {
			return err
		}
		s.logger.Debug("cascade deleted tasks",
			"user_id", userID,
			"count", deleted)

		if err := s.sessions.WithTx(tx).RemoveAll(ctx, userID); err != nil {
			return err
		}

		return s.users.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		s.logger.Error("failed to delete user",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.dispatcher.Dispatch(notify.Message{
		Kind:  notify.KindCancellation,
		Email: user.Email,
		Name:  user.Name,
	})

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// SetAvatar stores the processed avatar bytes.
func (s *UserServiceImpl) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	if err := s.users.SetAvatar(ctx, userID, avatar); err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	return nil
}

// DeleteAvatar clears the user's avatar.
func (s *UserServiceImpl) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	return nil
}

// GetAvatar returns the stored avatar bytes.
func (s *UserServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	avatar, err := s.users.GetAvatar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	return avatar, nil
}

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
)

// Task sort fields accepted by ListOptions. Anything else is rejected
// before a query is built.
const (
	TaskSortCreatedAt   = "createdAt"
	TaskSortUpdatedAt   = "updatedAt"
	TaskSortDescription = "description"
	TaskSortCompleted   = "completed"
)

// ListOptions narrows and orders a task listing. The owner filter is not
// part of the options: it is a mandatory argument on List so no call site
// can forget it.
type ListOptions struct {
	// Completed, when non-nil, filters on the completed flag.
	Completed *bool

	// SortField is one of the TaskSort* constants; empty means createdAt.
	SortField string

	// SortDesc orders descending when true.
	SortDesc bool

	// Limit caps the number of rows returned; zero means no limit.
	Limit int

	// Skip is the number of rows to skip before returning results.
	Skip int
}

// TaskStore defines the interface for task persistence. Every method that
// touches an existing task takes the owner's ID and applies it as a filter;
// a task belonging to someone else is indistinguishable from one that does
// not exist.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound otherwise.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks narrowed by opts. An empty result is
	// a nil-error empty slice, not an error.
	List(ctx context.Context, ownerID uuid.UUID, opts ListOptions) ([]*domain.Task, error)

	// Update persists the task's description and completed flag, scoped to
	// task.OwnerID. Returns ErrTaskNotFound if no matching row exists.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound if no matching row exists.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByOwner removes every task owned by ownerID and returns the
	// number of rows deleted. Used by the account deletion cascade.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}

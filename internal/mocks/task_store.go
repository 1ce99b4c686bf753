package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListFn          func(ctx context.Context, ownerID uuid.UUID, opts store.ListOptions) ([]*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByOwnerFn func(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	// Return a copy, like a real row scan, so callers mutate their own
	// record rather than the stored one.
	cp := *task
	return &cp, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListOptions,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, opts)
	}

	var tasks []*domain.Task
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && task.Completed != *opts.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		var less bool
		switch opts.SortField {
		case store.TaskSortDescription:
			less = strings.Compare(tasks[i].Description, tasks[j].Description) < 0
		case store.TaskSortCompleted:
			less = !tasks[i].Completed && tasks[j].Completed
		case store.TaskSortUpdatedAt:
			less = tasks[i].UpdatedAt.Before(tasks[j].UpdatedAt)
		default:
			less = tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		if opts.SortDesc {
			return !less
		}
		return less
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(tasks) {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	task, exists := m.Tasks[id]
	if !exists || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// DeleteByOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID)
	}

	var deleted int64
	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// WithTx implements the TaskStore interface
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

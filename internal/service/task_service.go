package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/domain"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// TaskUpdate carries the whitelisted mutable task fields. A nil field is
// left untouched.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// TaskService provides task operations. Every method takes the owner's ID
// resolved by the authentication middleware, never caller-supplied data,
// and passes it through to the store's mandatory owner filter.
type TaskService interface {
	// Create makes a new task owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)

	// List returns the owner's tasks narrowed by opts. No matches is an
	// empty slice, not an error.
	List(ctx context.Context, ownerID uuid.UUID, opts store.ListOptions) ([]*domain.Task, error)

	// Get retrieves one task. A missing task and another owner's task
	// both return store.ErrTaskNotFound.
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Update applies the whitelisted fields under the same not-found
	// rules as Get.
	Update(ctx context.Context, ownerID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete removes one task under the same not-found rules as Get.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		logger: logger.With("component", "task_service"),
	}
}

// Create makes a new task owned by ownerID.
func (s *TaskServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, description, completed)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns the owner's tasks narrowed by opts.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID, opts store.ListOptions) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx, ownerID, opts)
	if err != nil {
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			s.logger.Error("failed to list tasks",
				"error", err,
				"owner_id", ownerID)
		}
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get retrieves one of the owner's tasks.
func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to get task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update applies a whitelisted task update.
func (s *TaskServiceImpl) Update(ctx context.Context, ownerID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task for update: %w", err)
	}

	if update.Description != nil {
		// Same trimming as creation, so a whitespace-only value fails
		// validation instead of being stored verbatim.
		task.Description = strings.TrimSpace(*update.Description)
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes one of the owner's tasks and returns the deleted record.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task for deletion: %w", err)
	}

	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to delete task",
				"error", err,
				"task_id", taskID)
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrEmptyOwnerID     = errors.New("task owner cannot be empty")
)

// Task is a single to-do item. OwnerID is set at creation and never
// changes; every read and write of a task is scoped to its owner.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task for the given owner. The description is trimmed
// before validation.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Completed:   completed,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's fields.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyTaskID)
	}
	if t.Description == "" {
		return NewValidationError("description", "cannot be empty", ErrEmptyDescription)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "cannot be empty", ErrEmptyOwnerID)
	}
	return nil
}

package task

import (
	"strings"
	"time"

	"github.com/taskflow/taskflow/internal"
)

// CreateTaskDTO is the request payload for creating a task.
type CreateTaskDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (dto CreateTaskDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must be at most 200 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateTaskDTO carries partial updates; nil fields are left untouched.
type UpdateTaskDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (dto UpdateTaskDTO) Validate() error {
	if dto.Title != nil && strings.TrimSpace(*dto.Title) == "" {
		return internal.NewValidationFieldError("title", "title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return internal.NewValidationFieldError("status", "status must be one of pending, in_progress, completed", internal.ErrCodeValidationFailed)
	}
	return nil
}

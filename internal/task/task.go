package task

import (
	"time"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task is the unit of work employees and managers move around.
type Task struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"column:status;default:pending"`
	CreatedBy   int64      `json:"created_by" gorm:"column:created_by;not null"`
	AssignedTo  *int64     `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	DueDate     *time.Time `json:"due_date,omitempty" gorm:"column:due_date"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

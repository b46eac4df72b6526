package postgres

import (
	"errors"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/task"
	"gorm.io/gorm"
)

// TaskRepository implements the task repository interface using GORM
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *task.Task) error {
	return r.db.Create(t).Error
}

func (r *TaskRepository) GetByID(id int64) (*task.Task, error) {
	var t task.Task
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(limit, offset int) ([]*task.Task, error) {
	var tasks []*task.Task
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(t *task.Task) error {
	return r.db.Save(t).Error
}

func (r *TaskRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&task.Task{}).Error
}

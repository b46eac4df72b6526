package postgres

import (
	"github.com/taskflow/taskflow/internal/activity"
	"gorm.io/gorm"
)

// ActivityRepository persists audit trail entries using GORM
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(entry *activity.Entry) error {
	return r.db.Create(entry).Error
}

func (r *ActivityRepository) List(action string, limit, offset int) ([]*activity.Entry, error) {
	var entries []*activity.Entry
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if action != "" {
		q = q.Where("action = ?", action)
	}
	err := q.Find(&entries).Error
	return entries, err
}

package postgres

import (
	"github.com/taskflow/taskflow/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionRepository implements permission.RepositoryAPI using GORM.
type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Get(role string) (*permission.RolePermission, error) {
	var rp permission.RolePermission
	if err := r.db.Where("role = ?", role).First(&rp).Error; err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *PermissionRepository) GetAll() ([]*permission.RolePermission, error) {
	var rows []*permission.RolePermission
	err := r.db.Order("role ASC").Find(&rows).Error
	return rows, err
}

// Upsert writes the whole row in one statement so a concurrent reader
// never observes a partially replaced capability set.
func (r *PermissionRepository) Upsert(rp *permission.RolePermission) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}},
		UpdateAll: true,
	}).Create(rp).Error
}

package user

import (
	"time"
)

// Role is the closed set of roles a user can hold. Keeping it a dedicated
// type means the single-admin and capability-lookup checks never see a
// free-form string: unknown values are rejected at the DTO boundary.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record. Users are never hard-deleted; deactivation
// is the deletion substitute.
type User struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	Email               string     `json:"email" gorm:"uniqueIndex;not null"`
	Name                string     `json:"name" gorm:"not null"`
	PasswordHash        string     `json:"-" gorm:"column:password_hash;not null"`
	Role                Role       `json:"role" gorm:"type:varchar(16);not null;default:employee"`
	Department          string     `json:"department"`
	Position            string     `json:"position"`
	IsActive            bool       `json:"is_active" gorm:"column:is_active;default:true"`
	FailedLoginAttempts int        `json:"-" gorm:"column:failed_login_attempts;default:0"`
	LockedUntil         *time.Time `json:"-" gorm:"column:locked_until"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
	CreatedAt           time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt           time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}

package permission

import (
	"time"
)

// CapabilitySet is a fixed record with one field per named capability.
// A "missing" capability cannot exist at runtime; zero value means denied.
type CapabilitySet struct {
	CreateTask       bool `json:"create_task" gorm:"column:create_task"`
	EditTask         bool `json:"edit_task" gorm:"column:edit_task"`
	DeleteTask       bool `json:"delete_task" gorm:"column:delete_task"`
	ViewUsers        bool `json:"view_users" gorm:"column:view_users"`
	AddUsers         bool `json:"add_users" gorm:"column:add_users"`
	EditUsers        bool `json:"edit_users" gorm:"column:edit_users"`
	RemoveUsers      bool `json:"remove_users" gorm:"column:remove_users"`
	ViewActivityLogs bool `json:"view_activity_logs" gorm:"column:view_activity_logs"`
	UploadFiles      bool `json:"upload_files" gorm:"column:upload_files"`
	DownloadFiles    bool `json:"download_files" gorm:"column:download_files"`
	DeleteFiles      bool `json:"delete_files" gorm:"column:delete_files"`
}

// RolePermission is the stored capability set for one role. Replace
// overwrites the whole row, so readers never see a half-written set.
type RolePermission struct {
	Role          string `json:"role" gorm:"primaryKey;type:varchar(16)"`
	CapabilitySet `gorm:"embedded"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

var knownRoles = []string{"employee", "manager", "admin"}

func KnownRole(role string) bool {
	for _, r := range knownRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultForRole returns the built-in capability set installed at first
// boot. Administrators get everything; managers get task and file control
// plus read access to users and logs; employees get their own task and
// file basics.
func DefaultForRole(role string) CapabilitySet {
	switch role {
	case "admin":
		return CapabilitySet{
			CreateTask:       true,
			EditTask:         true,
			DeleteTask:       true,
			ViewUsers:        true,
			AddUsers:         true,
			EditUsers:        true,
			RemoveUsers:      true,
			ViewActivityLogs: true,
			UploadFiles:      true,
			DownloadFiles:    true,
			DeleteFiles:      true,
		}
	case "manager":
		return CapabilitySet{
			CreateTask:       true,
			EditTask:         true,
			DeleteTask:       true,
			ViewUsers:        true,
			ViewActivityLogs: true,
			UploadFiles:      true,
			DownloadFiles:    true,
			DeleteFiles:      true,
		}
	case "employee":
		return CapabilitySet{
			CreateTask:    true,
			EditTask:      true,
			UploadFiles:   true,
			DownloadFiles: true,
		}
	}
	return CapabilitySet{}
}

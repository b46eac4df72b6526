package activity

import "time"

// Entry is a single row in the audit trail. Entries are append-only and
// written by the event subscriber, never directly by handlers.
type Entry struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ActorID   int64     `json:"actor_id" gorm:"column:actor_id;index"`
	TargetID  int64     `json:"target_id,omitempty" gorm:"column:target_id"`
	Action    string    `json:"action" gorm:"column:action;index"`
	Detail    string    `json:"detail,omitempty" gorm:"column:detail"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "activity_logs"
}

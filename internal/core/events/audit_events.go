package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded = "auth.login_succeeded"
	EventTypeLoginFailed    = "auth.login_failed"
	EventTypeAccountLocked  = "auth.account_locked"
	EventTypeLoggedOut      = "auth.logged_out"

	EventTypeUserCreated       = "user.created"
	EventTypeUserUpdated       = "user.updated"
	EventTypeUserDeactivated   = "user.deactivated"
	EventTypePermissionsChange = "permission.replaced"

	EventTypeTaskCreated = "task.created"
	EventTypeTaskUpdated = "task.updated"
	EventTypeTaskDeleted = "task.deleted"
)

// AuditEvent is the single event shape the activity log consumes. Every
// auditable action in the system is expressed as one of these.
type AuditEvent struct {
	BaseEvent
	ActorID  int64  `json:"actor_id"`
	TargetID int64  `json:"target_id,omitempty"`
	Action   string `json:"action"`
	Detail   string `json:"detail,omitempty"`
}

func newAuditEvent(eventType string, actorID, targetID int64, detail string) *AuditEvent {
	return &AuditEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id":  actorID,
				"target_id": targetID,
				"detail":    detail,
			},
		},
		ActorID:  actorID,
		TargetID: targetID,
		Action:   eventType,
		Detail:   detail,
	}
}

func NewLoginSucceeded(userID int64, email string) *AuditEvent {
	return newAuditEvent(EventTypeLoginSucceeded, userID, userID, email)
}

// NewLoginFailed carries a zero actor when the email did not resolve to a
// user; the detail keeps the attempted address for the audit trail.
func NewLoginFailed(userID int64, email string) *AuditEvent {
	return newAuditEvent(EventTypeLoginFailed, userID, userID, email)
}

func NewAccountLocked(userID int64, until time.Time) *AuditEvent {
	return newAuditEvent(EventTypeAccountLocked, userID, userID, "locked until "+until.UTC().Format(time.RFC3339))
}

func NewLoggedOut(userID int64, email string) *AuditEvent {
	return newAuditEvent(EventTypeLoggedOut, userID, userID, email)
}

func NewUserCreated(actorID, targetID int64, email string) *AuditEvent {
	return newAuditEvent(EventTypeUserCreated, actorID, targetID, email)
}

func NewUserUpdated(actorID, targetID int64, detail string) *AuditEvent {
	return newAuditEvent(EventTypeUserUpdated, actorID, targetID, detail)
}

func NewUserDeactivated(actorID, targetID int64) *AuditEvent {
	return newAuditEvent(EventTypeUserDeactivated, actorID, targetID, "")
}

func NewPermissionsChanged(actorID int64, role string) *AuditEvent {
	return newAuditEvent(EventTypePermissionsChange, actorID, 0, role)
}

func NewTaskCreated(actorID, taskID int64, title string) *AuditEvent {
	return newAuditEvent(EventTypeTaskCreated, actorID, taskID, title)
}

func NewTaskUpdated(actorID, taskID int64, detail string) *AuditEvent {
	return newAuditEvent(EventTypeTaskUpdated, actorID, taskID, detail)
}

func NewTaskDeleted(actorID, taskID int64) *AuditEvent {
	return newAuditEvent(EventTypeTaskDeleted, actorID, taskID, "")
}

package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/core/events"
)

type RepositoryAPI interface {
	Create(entry *Entry) error
	List(action string, limit, offset int) ([]*Entry, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// auditedEventTypes is every event type the audit trail records. New
// auditable actions must be added here to be persisted.
var auditedEventTypes = []string{
	events.EventTypeLoginSucceeded,
	events.EventTypeLoginFailed,
	events.EventTypeAccountLocked,
	events.EventTypeLoggedOut,
	events.EventTypeUserCreated,
	events.EventTypeUserUpdated,
	events.EventTypeUserDeactivated,
	events.EventTypePermissionsChange,
	events.EventTypeTaskCreated,
	events.EventTypeTaskUpdated,
	events.EventTypeTaskDeleted,
}

// RegisterSubscriptions wires the audit trail to the event bus. Call once
// at startup, before any service begins publishing.
func (s *Service) RegisterSubscriptions(bus *events.EventBus) {
	for _, eventType := range auditedEventTypes {
		bus.Subscribe(eventType, s.handleAuditEvent)
	}
}

func (s *Service) handleAuditEvent(_ context.Context, event events.Event) error {
	audit, ok := event.(*events.AuditEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	entry := &Entry{
		ActorID:   audit.ActorID,
		TargetID:  audit.TargetID,
		Action:    audit.Action,
		Detail:    audit.Detail,
		CreatedAt: audit.OccurredAt(),
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to persist activity entry",
			"action", audit.Action,
			"actor_id", audit.ActorID,
			"error", err)
		return err
	}

	return nil
}

func (s *Service) List(action string, limit, offset int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.List(action, limit, offset)
	if err != nil {
		s.logger.Error("failed to list activity entries", "error", err)
		return nil, internal.NewInternalError("failed to list activity entries", err)
	}
	return entries, nil
}

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/core/events"
)

type RepositoryAPI interface {
	Create(t *Task) error
	GetByID(id int64) (*Task, error)
	List(limit, offset int) ([]*Task, error)
	Update(t *Task) error
	Delete(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) Create(actorID int64, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Task{
		Title:       dto.Title,
		Description: dto.Description,
		Status:      StatusPending,
		CreatedBy:   actorID,
		AssignedTo:  dto.AssignedTo,
		DueDate:     dto.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "actor_id", actorID)
		return nil, internal.NewInternalError("failed to create task", err)
	}

	s.bus.Publish(context.Background(), events.NewTaskCreated(actorID, t.ID, t.Title))

	s.logger.Info("task created", "task_id", t.ID, "actor_id", actorID)
	return t, nil
}

func (s *Service) Update(actorID, taskID int64, dto UpdateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Status != nil {
		t.Status = *dto.Status
	}
	if dto.AssignedTo != nil {
		t.AssignedTo = dto.AssignedTo
	}
	if dto.DueDate != nil {
		t.DueDate = dto.DueDate
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", taskID)
		return nil, internal.NewInternalError("failed to update task", err)
	}

	s.bus.Publish(context.Background(), events.NewTaskUpdated(actorID, taskID, t.Status))

	return t, nil
}

func (s *Service) Delete(actorID, taskID int64) error {
	if _, err := s.repo.GetByID(taskID); err != nil {
		return err
	}

	if err := s.repo.Delete(taskID); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		return internal.NewInternalError("failed to delete task", err)
	}

	s.bus.Publish(context.Background(), events.NewTaskDeleted(actorID, taskID))

	s.logger.Info("task deleted", "task_id", taskID, "actor_id", actorID)
	return nil
}

func (s *Service) GetByID(id int64) (*Task, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) List(limit, offset int) ([]*Task, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	tasks, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, internal.NewInternalError("failed to list tasks", err)
	}
	return tasks, nil
}

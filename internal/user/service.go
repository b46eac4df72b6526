package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/core/events"
)

type RepositoryAPI interface {
	// GetByEmail returns the user regardless of activation status so the
	// caller can distinguish deactivated accounts from unknown ones.
	GetByEmail(email string) (*User, error)
	// GetByID only resolves active users.
	GetByID(id int64) (*User, error)
	// GetAnyByID resolves users regardless of activation status; used by
	// administration flows that reactivate accounts.
	GetAnyByID(id int64) (*User, error)
	List(limit, offset int) ([]*User, error)
	Create(u *User) error
	Update(u *User) error
	// AdminID returns the id of the current administrator, or
	// internal.ErrUserNotFound when no admin exists yet.
	AdminID() (int64, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		bus:    bus,
		logger: logger,
	}
}

// Create adds a new user. Duplicate emails are a validation failure and a
// second administrator is a conflict, whoever asks.
func (s *Service) Create(actorID int64, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		s.logger.Error("failed to check for existing email", "error", err)
		return nil, internal.NewInternalError("failed to check for existing email", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateEmail
	}

	role := Role(dto.Role)
	if role == RoleAdmin {
		if _, err := s.repo.AdminID(); err == nil {
			return nil, internal.ErrAdminExists
		} else if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to check for existing administrator", "error", err)
			return nil, internal.NewInternalError("failed to check for existing administrator", err)
		}
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         role,
		Department:   dto.Department,
		Position:     dto.Position,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.bus.Publish(context.Background(), events.NewUserCreated(actorID, u.ID, u.Email))

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role, "actor_id", actorID)
	return u, nil
}

// Update applies a partial update to the target user, enforcing the
// self-modification and single-admin guards before anything is written.
func (s *Service) Update(actorID, targetID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.repo.GetAnyByID(targetID)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to load user", "error", err, "user_id", targetID)
			return nil, internal.NewInternalError("failed to load user", err)
		}
		return nil, internal.ErrUserNotFound
	}

	if actorID == targetID {
		demoting := dto.Role != nil && Role(*dto.Role) != target.Role && target.IsAdmin()
		deactivating := dto.IsActive != nil && !*dto.IsActive
		if demoting || deactivating {
			return nil, internal.ErrSelfModification
		}
	}

	if dto.Role != nil && Role(*dto.Role) == RoleAdmin && !target.IsAdmin() {
		adminID, err := s.repo.AdminID()
		if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to check for existing administrator", "error", err)
			return nil, internal.NewInternalError("failed to check for existing administrator", err)
		}
		if err == nil && adminID != targetID {
			return nil, internal.ErrAdminExists
		}
	}

	if dto.Name != nil {
		target.Name = *dto.Name
	}
	if dto.Role != nil {
		target.Role = Role(*dto.Role)
	}
	if dto.Department != nil {
		target.Department = *dto.Department
	}
	if dto.Position != nil {
		target.Position = *dto.Position
	}
	if dto.IsActive != nil {
		target.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		hash, err := s.hasher.HashPassword(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		target.PasswordHash = hash
	}
	target.UpdatedAt = time.Now()

	if err := s.repo.Update(target); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", targetID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.bus.Publish(context.Background(), events.NewUserUpdated(actorID, targetID, string(target.Role)))

	return target, nil
}

// Deactivate marks the target inactive. Deactivation stands in for
// deletion; the row and its history remain.
func (s *Service) Deactivate(actorID, targetID int64) error {
	if actorID == targetID {
		return internal.ErrSelfModification
	}

	target, err := s.repo.GetAnyByID(targetID)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to load user", "error", err, "user_id", targetID)
			return internal.NewInternalError("failed to load user", err)
		}
		return internal.ErrUserNotFound
	}

	target.Deactivate()
	if err := s.repo.Update(target); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", targetID)
		return internal.NewInternalError("failed to deactivate user", err)
	}

	s.bus.Publish(context.Background(), events.NewUserDeactivated(actorID, targetID))

	s.logger.Info("user deactivated", "user_id", targetID, "actor_id", actorID)
	return nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Error("failed to load user", "error", err, "user_id", id)
			return nil, internal.NewInternalError("failed to load user", err)
		}
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) List(limit, offset int) ([]*User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.repo.List(limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

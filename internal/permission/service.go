package permission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow/internal"
	"github.com/taskflow/taskflow/internal/core/events"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	Get(role string) (*RolePermission, error)
	GetAll() ([]*RolePermission, error)
	// Upsert atomically replaces the stored set for the row's role.
	Upsert(rp *RolePermission) error
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

// EnsureDefaults installs the built-in per-role capability sets for any
// role that has no stored row yet. It runs at every boot and is a no-op
// once configuration exists; after this the store is the only source of
// truth.
func (s *Service) EnsureDefaults() error {
	for _, role := range knownRoles {
		_, err := s.repo.Get(role)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("failed to read role permissions", "role", role, "error", err)
			return internal.NewInternalError("failed to read role permissions", err)
		}
		rp := &RolePermission{
			Role:          role,
			CapabilitySet: DefaultForRole(role),
			UpdatedAt:     time.Now(),
		}
		if err := s.repo.Upsert(rp); err != nil {
			s.logger.Error("failed to seed role permissions", "role", role, "error", err)
			return internal.NewInternalError("failed to seed role permissions", err)
		}
		s.logger.Info("seeded default permissions", "role", role)
	}
	return nil
}

// Get reads the capability set for a role. A role with no stored row
// reads as all-denied; any other read failure is surfaced so it cannot
// masquerade as a denial.
func (s *Service) Get(role string) (CapabilitySet, error) {
	rp, err := s.repo.Get(role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CapabilitySet{}, nil
		}
		s.logger.Error("failed to load permissions", "role", role, "error", err)
		return CapabilitySet{}, internal.NewInternalError("failed to load permissions", err)
	}
	return rp.CapabilitySet, nil
}

func (s *Service) GetAll() (map[string]CapabilitySet, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load permissions", "error", err)
		return nil, internal.NewInternalError("failed to load permissions", err)
	}

	all := make(map[string]CapabilitySet, len(rows))
	for _, rp := range rows {
		all[rp.Role] = rp.CapabilitySet
	}
	return all, nil
}

// Replace fully overwrites the stored set for the role. Authorization is
// the access guard's job; this component only validates the role name.
func (s *Service) Replace(actorID int64, role string, set CapabilitySet) error {
	if !KnownRole(role) {
		return internal.ErrInvalidRole
	}

	rp := &RolePermission{
		Role:          role,
		CapabilitySet: set,
		UpdatedAt:     time.Now(),
	}
	if err := s.repo.Upsert(rp); err != nil {
		s.logger.Error("failed to replace permissions", "role", role, "error", err)
		return internal.NewInternalError("failed to replace permissions", err)
	}

	// the seeder runs this service without a bus
	if s.bus != nil {
		s.bus.Publish(context.Background(), events.NewPermissionsChanged(actorID, role))
	}

	s.logger.Info("role permissions replaced", "role", role, "actor_id", actorID)
	return nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/core/port"
)

// RBACService exposes role and permission catalogs for the admin surface.
type RBACService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
}

// NewRBACService constructs an RBACService instance.
func NewRBACService(roles port.RoleRepository, permissions port.PermissionRepository) *RBACService {
	return &RBACService{roles: roles, permissions: permissions}
}

// ListRoles returns all active roles.
func (s *RBACService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// ListPermissions returns all known permissions.
func (s *RBACService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.permissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

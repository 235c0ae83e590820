package port

import (
	"context"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

// RoleRepository handles role reads used by the admin surface.
type RoleRepository interface {
	ListActive(ctx context.Context) ([]domain.Role, error)
}

// PermissionRepository handles permission reads used by the admin surface.
type PermissionRepository interface {
	List(ctx context.Context) ([]domain.Permission, error)
}

package port

import (
	"context"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

// UserRepository exposes persistence behavior for users and their role links.
// The authentication core only consumes the lookup methods during login; the
// mutation methods back the admin user creation and seed routines.
type UserRepository interface {
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash, salt string, roleIDs []int64) (int64, error)
	UpdatePassword(ctx context.Context, username, passwordHash, salt string) error
	ListRoleKeys(ctx context.Context, userID int64) ([]string, error)
	ListPermissionKeys(ctx context.Context, userID int64) ([]string, error)
}

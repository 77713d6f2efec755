package role

import (
	"context"

	"github.com/tendant/simple-lab/pkg/database"
)

// RoleRepository defines the storage operations for roles
type RoleRepository interface {
	CreateRole(ctx context.Context, name string) (Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	GetRoleByName(ctx context.Context, name string) (Role, error)
	FindRoles(ctx context.Context) ([]Role, error)

	// WithinTx runs fn as a single unit of work against this repository's storage
	WithinTx(ctx context.Context, mode database.TxMode, fn func(repo RoleRepository) error) error
}

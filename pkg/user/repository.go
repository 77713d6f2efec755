package user

import (
	"context"

	"github.com/tendant/simple-lab/pkg/database"
)

// UserRepository defines the storage operations for users. Users are always
// returned with their roles. Create and update store user.Roles as the
// complete role set.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	FindUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, user User) (User, error)
	DeleteUser(ctx context.Context, id int64) error

	// WithinTx runs fn as a single unit of work against this repository's storage
	WithinTx(ctx context.Context, mode database.TxMode, fn func(repo UserRepository) error) error
}

package user

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/config"
)

// NewUserRepository creates a user repository based on the persistence type
func NewUserRepository(persistenceType string, pool *pgxpool.Pool) (UserRepository, error) {
	switch persistenceType {
	case config.PersistencePostgres, "postgresql":
		if pool == nil {
			return nil, fmt.Errorf("database pool required for postgres repository")
		}
		return NewPostgresUserRepository(pool), nil
	case config.PersistenceMemory:
		return NewInMemoryUserRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, memory)", persistenceType)
	}
}

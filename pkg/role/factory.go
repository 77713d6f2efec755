package role

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/config"
)

// NewRoleRepository creates a role repository based on the persistence type
func NewRoleRepository(persistenceType string, pool *pgxpool.Pool) (RoleRepository, error) {
	switch persistenceType {
	case config.PersistencePostgres, "postgresql":
		if pool == nil {
			return nil, fmt.Errorf("database pool required for postgres repository")
		}
		return NewPostgresRoleRepository(pool), nil
	case config.PersistenceMemory:
		return NewInMemoryRoleRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, memory)", persistenceType)
	}
}

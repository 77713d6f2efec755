package lab

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/config"
)

// NewLabRepository creates a lab repository based on the persistence type
func NewLabRepository(persistenceType string, pool *pgxpool.Pool) (LabRepository, error) {
	switch persistenceType {
	case config.PersistencePostgres, "postgresql":
		if pool == nil {
			return nil, fmt.Errorf("database pool required for postgres repository")
		}
		return NewPostgresLabRepository(pool), nil
	case config.PersistenceMemory:
		return NewInMemoryLabRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, memory)", persistenceType)
	}
}

package result

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/config"
)

// NewResultRepository creates a result repository based on the persistence type
func NewResultRepository(persistenceType string, pool *pgxpool.Pool) (ResultRepository, error) {
	switch persistenceType {
	case config.PersistencePostgres, "postgresql":
		if pool == nil {
			return nil, fmt.Errorf("database pool required for postgres repository")
		}
		return NewPostgresResultRepository(pool), nil
	case config.PersistenceMemory:
		return NewInMemoryResultRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, memory)", persistenceType)
	}
}

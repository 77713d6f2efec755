package result

import (
	"context"

	"github.com/tendant/simple-lab/pkg/database"
	"github.com/tendant/simple-lab/pkg/lab"
)

// ResultRepository defines the storage operations for results. LabName is
// never stored or returned by a repository.
type ResultRepository interface {
	CreateResult(ctx context.Context, result Result) (Result, error)
	GetResult(ctx context.Context, id int64) (Result, error)
	FindResults(ctx context.Context) ([]Result, error)
	FindResultsByUser(ctx context.Context, userID int64) ([]Result, error)
	UpdateResult(ctx context.Context, id int64, result Result) (Result, error)
	DeleteResult(ctx context.Context, id int64) error

	// WithinTx runs fn as a single unit of work against this repository's storage
	WithinTx(ctx context.Context, mode database.TxMode, fn func(repo ResultRepository) error) error
}

// LabDirectory is the read view of the lab catalog the result ledger checks
// lab ids against. lab.LabRepository satisfies it.
type LabDirectory interface {
	GetLab(ctx context.Context, id int64) (lab.Lab, error)
	FindLabs(ctx context.Context) ([]lab.Lab, error)
	FindLabsByIDs(ctx context.Context, ids []int64) ([]lab.Lab, error)
}

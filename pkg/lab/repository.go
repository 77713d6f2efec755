package lab

import (
	"context"

	"github.com/tendant/simple-lab/pkg/database"
)

// LabRepository defines the storage operations for labs.
// Lookups return ErrLabNotFound for missing rows and writes return
// ErrLabNameTaken when the name is already stored.
type LabRepository interface {
	CreateLab(ctx context.Context, name string) (Lab, error)
	GetLab(ctx context.Context, id int64) (Lab, error)
	GetLabByName(ctx context.Context, name string) (Lab, error)
	FindLabs(ctx context.Context) ([]Lab, error)
	FindLabsByIDs(ctx context.Context, ids []int64) ([]Lab, error)
	UpdateLab(ctx context.Context, id int64, name string) (Lab, error)
	DeleteLab(ctx context.Context, id int64) error

	// WithinTx runs fn as a single unit of work against this repository's storage
	WithinTx(ctx context.Context, mode database.TxMode, fn func(repo LabRepository) error) error
}

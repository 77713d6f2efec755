package lab

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/database"
)

// PostgresLabRepository implements LabRepository using PostgreSQL
type PostgresLabRepository struct {
	db database.DBTX
	// beginner is nil when the repository is already bound to a transaction
	beginner database.TxBeginner
}

// NewPostgresLabRepository creates a new PostgreSQL lab repository
func NewPostgresLabRepository(pool *pgxpool.Pool) *PostgresLabRepository {
	return &PostgresLabRepository{
		db:       pool,
		beginner: pool,
	}
}

// WithinTx runs fn inside a transaction. Calls on an already bound repository
// join the surrounding transaction.
func (r *PostgresLabRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo LabRepository) error) error {
	if r.beginner == nil {
		return fn(r)
	}
	return database.RunInTx(ctx, r.beginner, mode, func(tx pgx.Tx) error {
		return fn(&PostgresLabRepository{db: tx})
	})
}

// CreateLab inserts a new lab
func (r *PostgresLabRepository) CreateLab(ctx context.Context, name string) (Lab, error) {
	query := `
		INSERT INTO labs (name)
		VALUES ($1)
		RETURNING id, name
	`

	var lab Lab
	err := r.db.QueryRow(ctx, query, name).Scan(&lab.ID, &lab.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return Lab{}, ErrLabNameTaken
		}
		return Lab{}, fmt.Errorf("failed to create lab: %w", err)
	}
	return lab, nil
}

// GetLab retrieves a lab by id
func (r *PostgresLabRepository) GetLab(ctx context.Context, id int64) (Lab, error) {
	query := `SELECT id, name FROM labs WHERE id = $1`

	var lab Lab
	err := r.db.QueryRow(ctx, query, id).Scan(&lab.ID, &lab.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lab{}, ErrLabNotFound
		}
		return Lab{}, fmt.Errorf("failed to get lab: %w", err)
	}
	return lab, nil
}

// GetLabByName retrieves a lab by its exact name
func (r *PostgresLabRepository) GetLabByName(ctx context.Context, name string) (Lab, error) {
	query := `SELECT id, name FROM labs WHERE name = $1`

	var lab Lab
	err := r.db.QueryRow(ctx, query, name).Scan(&lab.ID, &lab.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lab{}, ErrLabNotFound
		}
		return Lab{}, fmt.Errorf("failed to get lab by name: %w", err)
	}
	return lab, nil
}

// FindLabs returns all labs ordered by id
func (r *PostgresLabRepository) FindLabs(ctx context.Context) ([]Lab, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM labs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to find labs: %w", err)
	}
	return scanLabs(rows)
}

// FindLabsByIDs returns the labs whose id is in ids. Missing ids are skipped.
func (r *PostgresLabRepository) FindLabsByIDs(ctx context.Context, ids []int64) ([]Lab, error) {
	if len(ids) == 0 {
		return []Lab{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, name FROM labs WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find labs by ids: %w", err)
	}
	return scanLabs(rows)
}

// UpdateLab renames a lab
func (r *PostgresLabRepository) UpdateLab(ctx context.Context, id int64, name string) (Lab, error) {
	query := `
		UPDATE labs
		SET name = $2
		WHERE id = $1
		RETURNING id, name
	`

	var lab Lab
	err := r.db.QueryRow(ctx, query, id, name).Scan(&lab.ID, &lab.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lab{}, ErrLabNotFound
		}
		if database.IsUniqueViolation(err) {
			return Lab{}, ErrLabNameTaken
		}
		return Lab{}, fmt.Errorf("failed to update lab: %w", err)
	}
	return lab, nil
}

// DeleteLab removes a lab. Results referencing it are left untouched.
func (r *PostgresLabRepository) DeleteLab(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM labs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lab: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLabNotFound
	}
	return nil
}

func scanLabs(rows pgx.Rows) ([]Lab, error) {
	defer rows.Close()

	labs := []Lab{}
	for rows.Next() {
		var lab Lab
		if err := rows.Scan(&lab.ID, &lab.Name); err != nil {
			return nil, fmt.Errorf("failed to scan lab: %w", err)
		}
		labs = append(labs, lab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labs: %w", err)
	}
	return labs, nil
}

package result

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/database"
	"github.com/tendant/simple-lab/pkg/utils"
)

const resultColumns = `id, user_id, lab_id, test_type, value_json, status, result_date`

// PostgresResultRepository implements ResultRepository using PostgreSQL
type PostgresResultRepository struct {
	db database.DBTX
	// beginner is nil when the repository is already bound to a transaction
	beginner database.TxBeginner
}

// NewPostgresResultRepository creates a new PostgreSQL result repository
func NewPostgresResultRepository(pool *pgxpool.Pool) *PostgresResultRepository {
	return &PostgresResultRepository{
		db:       pool,
		beginner: pool,
	}
}

// WithinTx runs fn inside a transaction, joining the surrounding one when
// the repository is already bound
func (r *PostgresResultRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo ResultRepository) error) error {
	if r.beginner == nil {
		return fn(r)
	}
	return database.RunInTx(ctx, r.beginner, mode, func(tx pgx.Tx) error {
		return fn(&PostgresResultRepository{db: tx})
	})
}

// CreateResult inserts a new result
func (r *PostgresResultRepository) CreateResult(ctx context.Context, result Result) (Result, error) {
	query := `
		INSERT INTO results (user_id, lab_id, test_type, value_json, status, result_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + resultColumns

	row := r.db.QueryRow(ctx, query,
		result.UserID,
		result.LabID,
		utils.ToNullString(result.TestType),
		utils.ToNullString(result.ValueJSON),
		utils.ToNullString(result.Status),
		result.ResultDate.toPgDate(),
	)
	created, err := scanResult(row)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create result: %w", err)
	}
	return created, nil
}

// GetResult retrieves a result by id
func (r *PostgresResultRepository) GetResult(ctx context.Context, id int64) (Result, error) {
	row := r.db.QueryRow(ctx, `SELECT `+resultColumns+` FROM results WHERE id = $1`, id)
	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Result{}, ErrResultNotFound
		}
		return Result{}, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

// FindResults returns all results ordered by id
func (r *PostgresResultRepository) FindResults(ctx context.Context) ([]Result, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resultColumns+` FROM results ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}
	return scanResults(rows)
}

// FindResultsByUser returns the results recorded for a user ordered by id
func (r *PostgresResultRepository) FindResultsByUser(ctx context.Context, userID int64) ([]Result, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resultColumns+` FROM results WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find results by user: %w", err)
	}
	return scanResults(rows)
}

// UpdateResult replaces every writable field of a result
func (r *PostgresResultRepository) UpdateResult(ctx context.Context, id int64, result Result) (Result, error) {
	query := `
		UPDATE results
		SET user_id = $2, lab_id = $3, test_type = $4, value_json = $5, status = $6, result_date = $7
		WHERE id = $1
		RETURNING ` + resultColumns

	row := r.db.QueryRow(ctx, query,
		id,
		result.UserID,
		result.LabID,
		utils.ToNullString(result.TestType),
		utils.ToNullString(result.ValueJSON),
		utils.ToNullString(result.Status),
		result.ResultDate.toPgDate(),
	)
	updated, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Result{}, ErrResultNotFound
		}
		return Result{}, fmt.Errorf("failed to update result: %w", err)
	}
	return updated, nil
}

// DeleteResult removes a result
func (r *PostgresResultRepository) DeleteResult(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResultNotFound
	}
	return nil
}

func scanResult(row pgx.Row) (Result, error) {
	var (
		result                  Result
		testType, value, status sql.NullString
		resultDate              pgtype.Date
	)
	err := row.Scan(&result.ID, &result.UserID, &result.LabID, &testType, &value, &status, &resultDate)
	if err != nil {
		return Result{}, err
	}
	result.TestType = utils.FromNullString(testType)
	result.ValueJSON = utils.FromNullString(value)
	result.Status = utils.FromNullString(status)
	result.ResultDate = fromPgDate(resultDate)
	return result, nil
}

func scanResults(rows pgx.Rows) ([]Result, error) {
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

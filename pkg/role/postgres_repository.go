package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/database"
)

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db database.DBTX
	// beginner is nil when the repository is already bound to a transaction
	beginner database.TxBeginner
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{
		db:       pool,
		beginner: pool,
	}
}

// WithinTx runs fn inside a transaction, joining the surrounding one when
// the repository is already bound
func (r *PostgresRoleRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo RoleRepository) error) error {
	if r.beginner == nil {
		return fn(r)
	}
	return database.RunInTx(ctx, r.beginner, mode, func(tx pgx.Tx) error {
		return fn(&PostgresRoleRepository{db: tx})
	})
}

// CreateRole inserts a new role
func (r *PostgresRoleRepository) CreateRole(ctx context.Context, name string) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id, name`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return Role{}, ErrRoleNameTaken
		}
		return Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// GetRole retrieves a role by id
func (r *PostgresRoleRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	return r.getOne(ctx, `SELECT id, name FROM roles WHERE id = $1`, id)
}

// GetRoleByName retrieves a role by its exact name
func (r *PostgresRoleRepository) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return r.getOne(ctx, `SELECT id, name FROM roles WHERE name = $1`, name)
}

// FindRoles returns all roles ordered by id
func (r *PostgresRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	defer rows.Close()

	roles := []Role{}
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roles: %w", err)
	}
	return roles, nil
}

func (r *PostgresRoleRepository) getOne(ctx context.Context, query string, arg interface{}) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-lab/pkg/database"
	"github.com/tendant/simple-lab/pkg/role"
	"github.com/tendant/simple-lab/pkg/utils"
)

const userColumns = `id, email, password_hash, full_name`

// PostgresUserRepository implements UserRepository using PostgreSQL. Roles
// are read from the roles table through user_roles.
type PostgresUserRepository struct {
	db database.DBTX
	// beginner is nil when the repository is already bound to a transaction
	beginner database.TxBeginner
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		db:       pool,
		beginner: pool,
	}
}

// WithinTx runs fn inside a transaction, joining the surrounding one when
// the repository is already bound
func (r *PostgresUserRepository) WithinTx(ctx context.Context, mode database.TxMode, fn func(repo UserRepository) error) error {
	if r.beginner == nil {
		return fn(r)
	}
	return database.RunInTx(ctx, r.beginner, mode, func(tx pgx.Tx) error {
		return fn(&PostgresUserRepository{db: tx})
	})
}

// CreateUser inserts a user and links its roles. Call it inside WithinTx so
// the user row and its links commit together.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user User) (User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query, user.Email, user.PasswordHash, utils.ToNullString(user.FullName)))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := r.linkRoles(ctx, created.ID, user.Roles); err != nil {
		return User{}, err
	}
	created.Roles = copyRoles(user.Roles)
	return created, nil
}

// GetUser retrieves a user with roles by id
func (r *PostgresUserRepository) GetUser(ctx context.Context, id int64) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetUserByEmail retrieves a user with roles by exact email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindUsers returns all users with roles ordered by id
func (r *PostgresUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	if err := r.loadRoles(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser replaces a user's fields and role set
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, id int64, user User) (User, error) {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, full_name = $4
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRow(ctx, query, id, user.Email, user.PasswordHash, utils.ToNullString(user.FullName)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		if database.IsUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return User{}, fmt.Errorf("failed to clear user roles: %w", err)
	}
	if err := r.linkRoles(ctx, id, user.Roles); err != nil {
		return User{}, err
	}
	updated.Roles = copyRoles(user.Roles)
	return updated, nil
}

// DeleteUser removes a user. Role links go with it.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}

	users := []User{user}
	if err := r.loadRoles(ctx, users); err != nil {
		return User{}, err
	}
	return users[0], nil
}

func (r *PostgresUserRepository) linkRoles(ctx context.Context, userID int64, roles []role.Role) error {
	for _, rl := range roles {
		_, err := r.db.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, rl.ID)
		if err != nil {
			return fmt.Errorf("failed to link role %s: %w", rl.Name, err)
		}
	}
	return nil
}

// loadRoles fills Roles for every user with a single query
func (r *PostgresUserRepository) loadRoles(ctx context.Context, users []User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(users))
	index := make(map[int64]int, len(users))
	for i := range users {
		users[i].Roles = []role.Role{}
		ids = append(ids, users[i].ID)
		index[users[i].ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT ur.user_id, r.id, r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY ur.user_id, r.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var rl role.Role
		if err := rows.Scan(&userID, &rl.ID, &rl.Name); err != nil {
			return fmt.Errorf("failed to scan user role: %w", err)
		}
		i := index[userID]
		users[i].Roles = append(users[i].Roles, rl)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read user roles: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var fullName sql.NullString
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &fullName); err != nil {
		return User{}, err
	}
	user.FullName = utils.FromNullString(fullName)
	return user, nil
}

func copyRoles(roles []role.Role) []role.Role {
	out := make([]role.Role, len(roles))
	copy(out, roles)
	return out
}

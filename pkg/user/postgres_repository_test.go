package user

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/role"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "users_db.sql")),
		postgres.WithDatabase("lab_db"),
		postgres.WithUsername("lab"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestUserService_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	roleService := role.NewRoleService(role.NewPostgresRoleRepository(pool))
	_, err := roleService.EnsureRoles(ctx, []string{"MEDICO", "PACIENTE"})
	require.NoError(t, err)

	repo := NewPostgresUserRepository(pool)
	service := NewUserService(repo, roleService, WithPasswordHasher(NewBcryptHasher(bcrypt.MinCost)))

	created, err := service.CreateUser(ctx, anaParams("ENFERMERO"))
	require.NoError(t, err)
	assert.Equal(t, []string{"PACIENTE"}, created.RoleNames())

	_, err = service.CreateUser(ctx, anaParams(""))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConflict))

	found, err := service.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana López", found.FullName)
	assert.Equal(t, []string{"PACIENTE"}, found.RoleNames())

	updated, err := service.UpdateUser(ctx, created.ID, UserParams{Email: "ana@example.com", FullName: "Ana López", Role: "MEDICO"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MEDICO"}, updated.RoleNames())

	stored, err := repo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"MEDICO"}, stored.RoleNames(), "old role link replaced")

	_, err = service.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	users, err := service.FindUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, service.DeleteUser(ctx, created.ID))
	_, err = service.GetUser(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestPostgresUserRepository_NoRoles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	repo := NewPostgresUserRepository(pool)
	created, err := repo.CreateUser(ctx, User{Email: "solo@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	found, err := repo.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.Roles)
	assert.Empty(t, found.Roles)
	assert.Equal(t, "", found.FullName)

	_, err = repo.CreateUser(ctx, User{Email: "solo@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	assert.ErrorIs(t, repo.DeleteUser(ctx, 987654), ErrUserNotFound)
}

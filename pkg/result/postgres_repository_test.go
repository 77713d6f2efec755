package result

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

	apperrors "github.com/tendant/simple-lab/pkg/errors"
	"github.com/tendant/simple-lab/pkg/lab"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "results_db.sql")),
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

func TestPostgresResultRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresResultRepository(pool)
	ctx := context.Background()

	t.Run("nullable columns round trip", func(t *testing.T) {
		created, err := repo.CreateResult(ctx, Result{UserID: 5, LabID: 77})
		require.NoError(t, err)

		found, err := repo.GetResult(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "", found.TestType)
		assert.Equal(t, "", found.ValueJSON)
		assert.True(t, found.ResultDate.IsZero())
		assert.Nil(t, found.LabName)
	})

	t.Run("date round trip", func(t *testing.T) {
		created, err := repo.CreateResult(ctx, Result{
			UserID:     6,
			LabID:      1,
			TestType:   "Glucosa",
			ValueJSON:  `{"mg_dl":92}`,
			Status:     "PENDIENTE",
			ResultDate: NewDate(2024, time.March, 2),
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-02", created.ResultDate.String())
		assert.Equal(t, `{"mg_dl":92}`, created.ValueJSON)
	})

	t.Run("by user", func(t *testing.T) {
		_, err := repo.CreateResult(ctx, Result{UserID: 42, LabID: 1})
		require.NoError(t, err)
		_, err = repo.CreateResult(ctx, Result{UserID: 42, LabID: 2})
		require.NoError(t, err)

		results, err := repo.FindResultsByUser(ctx, 42)
		require.NoError(t, err)
		assert.Len(t, results, 2)

		none, err := repo.FindResultsByUser(ctx, 4242)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := repo.GetResult(ctx, 987654)
		assert.ErrorIs(t, err, ErrResultNotFound)

		_, err = repo.UpdateResult(ctx, 987654, Result{UserID: 1, LabID: 1})
		assert.ErrorIs(t, err, ErrResultNotFound)

		assert.ErrorIs(t, repo.DeleteResult(ctx, 987654), ErrResultNotFound)
	})
}

func TestResultService_Postgres_LabDeleted(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	labs := lab.NewPostgresLabRepository(pool)
	service := NewResultService(NewPostgresResultRepository(pool), labs)
	ctx := context.Background()

	central, err := labs.CreateLab(ctx, "Central")
	require.NoError(t, err)

	_, err = service.CreateResult(ctx, hemograma(100, central.ID+1000))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))

	created, err := service.CreateResult(ctx, hemograma(100, central.ID))
	require.NoError(t, err)
	require.NotNil(t, created.LabName)
	assert.Equal(t, "Central", *created.LabName)

	require.NoError(t, labs.DeleteLab(ctx, central.ID))

	found, err := service.GetResult(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found.LabName)
	assert.Equal(t, "2024-01-15", found.ResultDate.String())
}

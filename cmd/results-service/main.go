package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-lab/pkg/config"
	"github.com/tendant/simple-lab/pkg/database"
	"github.com/tendant/simple-lab/pkg/lab"
	labapi "github.com/tendant/simple-lab/pkg/lab/api"
	"github.com/tendant/simple-lab/pkg/metrics"
	"github.com/tendant/simple-lab/pkg/result"
	resultapi "github.com/tendant/simple-lab/pkg/result/api"
	"github.com/tendant/simple-lab/pkg/router"
)

const serviceName = "results-service"

func main() {
	var cfg config.ResultsConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     config.ParseLogLevel(cfg.Service.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := config.Validate(config.ValidateService(cfg.Service)); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting "+serviceName, "port", cfg.Service.Port, "persistence", cfg.Service.PersistenceType)

	var pool *pgxpool.Pool
	if cfg.Service.PersistenceType == config.PersistencePostgres {
		var err error
		pool, err = database.NewPool(context.Background(), cfg.Database)
		if err != nil {
			slog.Error("Failed to connect to database", "host", cfg.Database.Host, "database", cfg.Database.Database, "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		slog.Info("Database connected", "database", cfg.Database.Database)
	}

	routes, err := buildRoutes(cfg, pool)
	if err != nil {
		slog.Error("Failed to set up results service", "error", err)
		os.Exit(1)
	}

	server := app.NewApp(app.WithPort(cfg.Service.Port))
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	router.SetupRoutes(server.R, routes)

	server.Run()
}

// buildRoutes wires the result service. Labs are read from the labs table of
// the database the labs service writes to. In memory mode there is no such
// shared table, so the lab routes are served here on the same in-memory
// store.
func buildRoutes(cfg config.ResultsConfig, pool *pgxpool.Pool) (router.Config, error) {
	labRepo, err := lab.NewLabRepository(cfg.Service.PersistenceType, pool)
	if err != nil {
		return router.Config{}, fmt.Errorf("failed to create lab repository: %w", err)
	}
	resultRepo, err := result.NewResultRepository(cfg.Service.PersistenceType, pool)
	if err != nil {
		return router.Config{}, fmt.Errorf("failed to create result repository: %w", err)
	}

	routes := router.Config{
		PrefixConfig: cfg.Service.Prefix,
		ResultHandle: resultapi.NewHandle(result.NewResultService(resultRepo, labRepo)),
	}
	if cfg.Service.PersistenceType == config.PersistenceMemory {
		slog.Warn("In-memory persistence: serving lab routes from this process", "prefix", cfg.Service.Prefix.Labs)
		routes.LabHandle = labapi.NewHandle(lab.NewLabService(labRepo))
	}
	if cfg.Service.MetricsEnabled {
		routes.Metrics = metrics.NewRegistry(serviceName)
	}
	return routes, nil
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-lab/pkg/config"
	"github.com/tendant/simple-lab/pkg/database"
	"github.com/tendant/simple-lab/pkg/lab"
	labapi "github.com/tendant/simple-lab/pkg/lab/api"
	"github.com/tendant/simple-lab/pkg/metrics"
	"github.com/tendant/simple-lab/pkg/router"
)

const serviceName = "labs-service"

func main() {
	var cfg config.LabsConfig
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

	labRepo, err := lab.NewLabRepository(cfg.Service.PersistenceType, pool)
	if err != nil {
		slog.Error("Failed to create lab repository", "error", err)
		os.Exit(1)
	}
	labService := lab.NewLabService(labRepo)

	routes := router.Config{
		PrefixConfig: cfg.Service.Prefix,
		LabHandle:    labapi.NewHandle(labService),
	}
	if cfg.Service.MetricsEnabled {
		routes.Metrics = metrics.NewRegistry(serviceName)
	}

	server := app.NewApp(app.WithPort(cfg.Service.Port))
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	router.SetupRoutes(server.R, routes)

	server.Run()
}

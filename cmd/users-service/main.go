package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-lab/pkg/bootstrap"
	"github.com/tendant/simple-lab/pkg/config"
	"github.com/tendant/simple-lab/pkg/database"
	"github.com/tendant/simple-lab/pkg/metrics"
	"github.com/tendant/simple-lab/pkg/ratelimit"
	"github.com/tendant/simple-lab/pkg/role"
	roleapi "github.com/tendant/simple-lab/pkg/role/api"
	"github.com/tendant/simple-lab/pkg/router"
	"github.com/tendant/simple-lab/pkg/user"
	userapi "github.com/tendant/simple-lab/pkg/user/api"
)

const serviceName = "users-service"

func main() {
	var cfg config.UsersConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     config.ParseLogLevel(cfg.Service.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := config.Validate(
		config.ValidateService(cfg.Service),
		config.ValidateRoles(cfg.Roles),
		config.ValidatePassword(cfg.Password),
	); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting "+serviceName, "port", cfg.Service.Port, "persistence", cfg.Service.PersistenceType,
		"default_role", cfg.Roles.DefaultRole, "fallback_on_empty_role", cfg.Roles.FallbackOnEmptyRole)

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

	roleRepo, err := role.NewRoleRepository(cfg.Service.PersistenceType, pool)
	if err != nil {
		slog.Error("Failed to create role repository", "error", err)
		os.Exit(1)
	}
	userRepo, err := user.NewUserRepository(cfg.Service.PersistenceType, pool)
	if err != nil {
		slog.Error("Failed to create user repository", "error", err)
		os.Exit(1)
	}

	roleService := role.NewRoleService(roleRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	_, err = bootstrap.BootstrapRoles(ctx, bootstrap.RoleBootstrapConfig{
		RoleNames:   cfg.Roles.SeedRoleNames(),
		DefaultRole: cfg.Roles.DefaultRole,
		RoleService: roleService,
	})
	cancel()
	if err != nil {
		slog.Error("Failed to bootstrap roles", "error", err)
		os.Exit(1)
	}

	userService := user.NewUserService(userRepo, roleService, user.WithConfig(cfg.Roles, cfg.Password))

	routes := router.Config{
		PrefixConfig: cfg.Service.Prefix,
		RoleHandle:   roleapi.NewHandle(roleService),
	}

	var handleOpts []userapi.HandleOption
	if cfg.Service.MetricsEnabled {
		routes.Metrics = metrics.NewRegistry(serviceName)
		handleOpts = append(handleOpts, userapi.WithLoginObserver(routes.Metrics.ObserveLogin))
	}
	if limiter := ratelimit.NewLoginMiddleware(cfg.RateLimit); limiter != nil {
		if routes.Metrics != nil {
			limiter.OnLimit(routes.Metrics.ObserveRateLimited)
		}
		handleOpts = append(handleOpts, userapi.WithLoginLimiter(limiter.Handler))
		slog.Info("Login rate limiting enabled", "burst", cfg.RateLimit.Burst, "per_minute", cfg.RateLimit.PerMinute,
			"trust_proxy_headers", cfg.RateLimit.TrustProxyHeaders)
	}
	routes.UserHandle = userapi.NewHandle(userService, handleOpts...)

	server := app.NewApp(app.WithPort(cfg.Service.Port))
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	router.SetupRoutes(server.R, routes)

	server.Run()
}

package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	pkgconfig "github.com/tendant/simple-lab/pkg/config"
	labapi "github.com/tendant/simple-lab/pkg/lab/api"
	"github.com/tendant/simple-lab/pkg/metrics"
	resultapi "github.com/tendant/simple-lab/pkg/result/api"
	roleapi "github.com/tendant/simple-lab/pkg/role/api"
	userapi "github.com/tendant/simple-lab/pkg/user/api"
)

// Config holds the handlers a service exposes. Nil handlers are not mounted,
// so each binary fills in only the groups it owns.
type Config struct {
	// Prefix configuration for all routes
	PrefixConfig pkgconfig.PrefixConfig

	LabHandle    *labapi.Handle
	ResultHandle *resultapi.Handle
	UserHandle   *userapi.Handle
	RoleHandle   *roleapi.Handle

	// Metrics is optional. When set, every API request is measured and the
	// registry is served under PrefixConfig.Metrics.
	Metrics *metrics.Registry
}

// SetupRoutes mounts the configured API groups on router
func SetupRoutes(router chi.Router, cfg Config) {
	if cfg.Metrics != nil {
		router.Handle(cfg.PrefixConfig.Metrics, cfg.Metrics.Handler())
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		if cfg.Metrics != nil {
			r.Use(cfg.Metrics.Middleware)
		}

		if cfg.LabHandle != nil {
			r.Mount(cfg.PrefixConfig.Labs, labapi.Handler(cfg.LabHandle))
			slog.Info("Lab routes mounted", "prefix", cfg.PrefixConfig.Labs)
		}
		if cfg.ResultHandle != nil {
			r.Mount(cfg.PrefixConfig.Results, resultapi.Handler(cfg.ResultHandle))
			slog.Info("Result routes mounted", "prefix", cfg.PrefixConfig.Results)
		}
		if cfg.UserHandle != nil {
			r.Mount(cfg.PrefixConfig.Users, userapi.Handler(cfg.UserHandle))
			slog.Info("User routes mounted", "prefix", cfg.PrefixConfig.Users)
		}
		if cfg.RoleHandle != nil {
			r.Mount(cfg.PrefixConfig.Roles, roleapi.Handler(cfg.RoleHandle))
			slog.Info("Role routes mounted", "prefix", cfg.PrefixConfig.Roles)
		}
	})
}

// NewRouter returns a chi router with the configured routes mounted.
// Binaries usually call SetupRoutes on the chi-demo app router instead.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	SetupRoutes(r, cfg)
	return r
}

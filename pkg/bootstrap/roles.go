package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/simple-lab/pkg/role"
)

// RoleBootstrapConfig contains configuration for seeding roles at startup
type RoleBootstrapConfig struct {
	// Role names to ensure (from SEED_ROLES, always including DEFAULT_ROLE)
	RoleNames []string

	// DefaultRole must exist once bootstrap succeeds
	DefaultRole string

	RoleService *role.RoleService
}

// RoleBootstrapResult contains the result of the role bootstrap
type RoleBootstrapResult struct {
	Roles   []role.EnsuredRole
	Created int
}

// BootstrapRoles ensures every configured role exists. It is safe to run on
// every start and from several instances at once.
func BootstrapRoles(ctx context.Context, cfg RoleBootstrapConfig) (*RoleBootstrapResult, error) {
	if cfg.RoleService == nil {
		return nil, fmt.Errorf("invalid bootstrap configuration: role service is required")
	}
	if len(cfg.RoleNames) == 0 {
		slog.Info("No seed roles configured - skipping role bootstrap")
		return &RoleBootstrapResult{}, nil
	}

	ensured, err := cfg.RoleService.EnsureRoles(ctx, cfg.RoleNames)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure roles: %w", err)
	}

	result := &RoleBootstrapResult{Roles: ensured}
	hasDefault := cfg.DefaultRole == ""
	for _, e := range ensured {
		if e.Created {
			result.Created++
		}
		if e.Role.Name == cfg.DefaultRole {
			hasDefault = true
		}
	}
	if !hasDefault {
		return nil, fmt.Errorf("default role %q is not among the seeded roles", cfg.DefaultRole)
	}

	PrintBootstrapResult(result)
	return result, nil
}

// PrintBootstrapResult logs one line per ensured role
func PrintBootstrapResult(result *RoleBootstrapResult) {
	if result == nil {
		return
	}
	for _, e := range result.Roles {
		status := "existing"
		if e.Created {
			status = "created"
		}
		slog.Info("Role ensured", "id", e.Role.ID, "name", e.Role.Name, "status", status)
	}
	slog.Info("Role bootstrap completed", "roles", len(result.Roles), "created", result.Created)
}

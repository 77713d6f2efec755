package config

import "strings"

// DefaultRoleName is the role substituted when a requested role cannot be resolved
const DefaultRoleName = "PACIENTE"

// RoleConfig controls role resolution for users
type RoleConfig struct {
	// DefaultRole is attached when the requested role does not exist.
	DefaultRole string `env:"DEFAULT_ROLE" env-default:"PACIENTE"`
	// FallbackOnEmptyRole also attaches DefaultRole when no role was requested at all.
	FallbackOnEmptyRole bool `env:"FALLBACK_ON_EMPTY_ROLE" env-default:"false"`
	// SeedRoles is a comma-separated list of roles created at startup if missing.
	SeedRoles string `env:"SEED_ROLES" env-default:"ADMINISTRADOR,MEDICO,PACIENTE,LABORATORISTA"`
}

// SeedRoleNames returns the trimmed, non-empty, de-duplicated seed role names.
// The default role is always included.
func (c RoleConfig) SeedRoleNames() []string {
	names := ParseRoleNames(c.SeedRoles)
	if c.DefaultRole == "" {
		return names
	}
	for _, name := range names {
		if name == c.DefaultRole {
			return names
		}
	}
	return append(names, c.DefaultRole)
}

// ParseRoleNames parses a comma-separated list of role names
// Returns a slice of trimmed, non-empty role names in input order
func ParseRoleNames(envValue string) []string {
	parts := strings.Split(envValue, ",")
	roles := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		roles = append(roles, trimmed)
	}

	return roles
}

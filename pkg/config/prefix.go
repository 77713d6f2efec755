package config

// PrefixConfig holds the mount points of every route group.
// Each service mounts only the groups it owns.
type PrefixConfig struct {
	Labs    string `env:"PREFIX_LABS" env-default:"/api/labs"`
	Results string `env:"PREFIX_RESULTS" env-default:"/api/results"`
	Users   string `env:"PREFIX_USERS" env-default:"/api/users"`
	Roles   string `env:"PREFIX_ROLES" env-default:"/api/roles"`
	Metrics string `env:"PREFIX_METRICS" env-default:"/metrics"`
}

// DefaultPrefixes returns the prefixes the services are published under
func DefaultPrefixes() PrefixConfig {
	return PrefixConfig{
		Labs:    "/api/labs",
		Results: "/api/results",
		Users:   "/api/users",
		Roles:   "/api/roles",
		Metrics: "/metrics",
	}
}

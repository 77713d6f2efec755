package config

// Supported persistence types
const (
	PersistencePostgres = "postgres"
	PersistenceMemory   = "memory"
)

// ServiceConfig holds the settings every service binary shares
type ServiceConfig struct {
	Name            string `env:"SERVICE_NAME"`
	Port            int    `env:"APP_PORT" env-default:"8080"`
	PersistenceType string `env:"PERSISTENCE_TYPE" env-default:"postgres"`
	LogLevel        string `env:"LOG_LEVEL" env-default:"info"`
	MetricsEnabled  bool   `env:"METRICS_ENABLED" env-default:"true"`
	Prefix          PrefixConfig
}

// LabsConfig is the configuration of the labs service
type LabsConfig struct {
	Service  ServiceConfig
	Database DatabaseConfig
}

// ResultsConfig is the configuration of the results service
type ResultsConfig struct {
	Service  ServiceConfig
	Database DatabaseConfig
}

// UsersConfig is the configuration of the users service
type UsersConfig struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Roles     RoleConfig
	Password  PasswordConfig
	RateLimit LoginRateLimitConfig
}

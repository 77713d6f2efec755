// Package config holds the environment-driven configuration of the lab,
// result and user services.
//
// Structs are read with cleanenv (env / env-default tags). Load also honours
// an optional .env file so local runs need no exported variables:
//
//	var cfg config.UsersConfig
//	if err := config.Load(&cfg); err != nil {
//		slog.Error("Failed to read configuration", "error", err)
//		os.Exit(1)
//	}
//
// Common variables:
//
//	APP_PORT               HTTP port (default 8080)
//	PERSISTENCE_TYPE       postgres | memory (default postgres)
//	LOG_LEVEL              debug | info | warn | error
//	PG_HOST, PG_PORT, PG_DATABASE, PG_USER, PG_PASSWORD, PG_SCHEMA
//
// Users service only:
//
//	DEFAULT_ROLE           role substituted for unknown role names (default PACIENTE)
//	FALLBACK_ON_EMPTY_ROLE also attach DEFAULT_ROLE when no role is requested (default false)
//	SEED_ROLES             roles created at startup when missing
//	PASSWORD_BCRYPT_COST, PASSWORD_MIN_LENGTH
//	LOGIN_RATE_LIMIT_*     per-client login throttling
//	TRUST_PROXY_HEADERS    key the login limiter on X-Forwarded-For / X-Real-IP (default false)
package config

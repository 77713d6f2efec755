package config

import "time"

// LoginRateLimitConfig holds per-client throttling for the login endpoint
type LoginRateLimitConfig struct {
	Enabled   bool          `env:"LOGIN_RATE_LIMIT_ENABLED" env-default:"true"`
	Burst     int           `env:"LOGIN_RATE_LIMIT_BURST" env-default:"5"`
	PerMinute float64       `env:"LOGIN_RATE_LIMIT_PER_MINUTE" env-default:"10"`
	BucketTTL time.Duration `env:"LOGIN_RATE_LIMIT_BUCKET_TTL" env-default:"10m"`

	// TrustProxyHeaders keys clients on X-Forwarded-For / X-Real-IP. Enable
	// only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" env-default:"false"`
}

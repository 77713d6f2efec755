package user

import "github.com/tendant/simple-lab/pkg/config"

// DefaultMinPasswordLength is used when no minimum is configured
const DefaultMinPasswordLength = 6

// Option configures a UserService
type Option func(*UserService)

// WithPasswordHasher replaces the default bcrypt hasher
func WithPasswordHasher(hasher PasswordHasher) Option {
	return func(s *UserService) {
		s.hasher = hasher
	}
}

// WithDefaultRole sets the role attached when the requested role does not exist
func WithDefaultRole(name string) Option {
	return func(s *UserService) {
		s.defaultRole = name
	}
}

// WithEmptyRoleFallback attaches the default role when no role is requested at all
func WithEmptyRoleFallback(enabled bool) Option {
	return func(s *UserService) {
		s.fallbackOnEmptyRole = enabled
	}
}

// WithMinPasswordLength sets the shortest password accepted
func WithMinPasswordLength(n int) Option {
	return func(s *UserService) {
		s.minPasswordLength = n
	}
}

// WithConfig applies role and password settings from configuration
func WithConfig(roles config.RoleConfig, password config.PasswordConfig) Option {
	return func(s *UserService) {
		if roles.DefaultRole != "" {
			s.defaultRole = roles.DefaultRole
		}
		s.fallbackOnEmptyRole = roles.FallbackOnEmptyRole
		s.hasher = NewBcryptHasher(password.Cost())
		if password.MinLength > 0 {
			s.minPasswordLength = password.MinLength
		}
	}
}

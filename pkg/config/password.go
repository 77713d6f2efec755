package config

import "golang.org/x/crypto/bcrypt"

// PasswordConfig holds password hashing and policy configuration
type PasswordConfig struct {
	BcryptCost int `env:"PASSWORD_BCRYPT_COST" env-default:"10"`
	MinLength  int `env:"PASSWORD_MIN_LENGTH" env-default:"6"`
}

// Cost returns a bcrypt cost clamped to the range bcrypt accepts
func (c PasswordConfig) Cost() int {
	switch {
	case c.BcryptCost == 0:
		return bcrypt.DefaultCost
	case c.BcryptCost < bcrypt.MinCost:
		return bcrypt.MinCost
	case c.BcryptCost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return c.BcryptCost
}
